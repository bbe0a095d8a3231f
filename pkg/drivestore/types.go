package drivestore

// Item is a simplified representation of a drive item.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	WebURL   string `json:"webUrl"`
	Size     int64  `json:"size"`
	IsFolder bool   `json:"-"`
}

type itemResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	WebURL string `json:"webUrl"`
	Size   int64  `json:"size"`
	Folder *struct {
		ChildCount int `json:"childCount"`
	} `json:"folder,omitempty"`
}

type childrenResponse struct {
	Value []itemResponse `json:"value"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
