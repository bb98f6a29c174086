package espn

// apiSchedule represents the per-team schedule endpoint response.
type apiSchedule struct {
	Events []apiEvent `json:"events"`
}

type apiEvent struct {
	Date         string           `json:"date"`
	Competitions []apiCompetition `json:"competitions"`
}

type apiCompetition struct {
	Name        string          `json:"name"`
	Competitors []apiCompetitor `json:"competitors"`
	Venue       *apiVenue       `json:"venue"`
	Status      *apiStatus      `json:"status"`
}

type apiCompetitor struct {
	HomeAway string  `json:"homeAway"`
	Team     apiTeam `json:"team"`
}

type apiTeam struct {
	Abbreviation string    `json:"abbreviation"`
	DisplayName  string    `json:"displayName"`
	Logos        []apiLogo `json:"logos"`
	Links        []apiLink `json:"links"`
}

type apiLogo struct {
	Href string `json:"href"`
}

type apiLink struct {
	Href string `json:"href"`
}

type apiVenue struct {
	FullName string `json:"fullName"`
}

type apiStatus struct {
	Type apiStatusType `json:"type"`
}

type apiStatusType struct {
	Completed bool   `json:"completed"`
	Detail    string `json:"detail"`
}

// pagePayload is the fragment of the embedded page state the scraper needs.
type pagePayload struct {
	Page struct {
		Content struct {
			Fixtures struct {
				Events []pageEvent `json:"events"`
			} `json:"fixtures"`
		} `json:"content"`
	} `json:"page"`
}

type pageEvent struct {
	Date        string           `json:"date"`
	Completed   bool             `json:"completed"`
	League      string           `json:"league"`
	Link        string           `json:"link"`
	Venue       *pageVenue       `json:"venue"`
	Status      *pageStatus      `json:"status"`
	Competitors []pageCompetitor `json:"competitors"`
}

type pageVenue struct {
	FullName string `json:"fullName"`
}

type pageStatus struct {
	Detail string `json:"detail"`
}

type pageCompetitor struct {
	Abbrev      string `json:"abbrev"`
	DisplayName string `json:"displayName"`
	IsHome      bool   `json:"isHome"`
	Logo        string `json:"logo"`
	Links       string `json:"links"`
}
