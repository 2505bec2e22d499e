package model

// Stats holds row counts per table.
type Stats struct {
	Users    int `json:"users"`
	Notes    int `json:"notes"`
	News     int `json:"news"`
	Comments int `json:"comments"`
}
