package models

import "github.com/tripmapper/tripmapper/internal/dayhistory"

// DayListResponse is the tab strip: fixed days first, then uploaded days.
type DayListResponse struct {
	Days        []dayhistory.Day `json:"days"`
	ActiveDayID string           `json:"activeDayId"`
}

// SetActiveDayRequest selects which day tab is active.
type SetActiveDayRequest struct {
	DayID string `json:"dayId"`
}

// SetActiveDayResponse reports the day that is actually active after the
// request. It may differ from the requested day when the requested id is
// unknown.
type SetActiveDayResponse struct {
	ActiveDayID string `json:"activeDayId"`
}

// UploadPathRequest carries an uploaded path file as text plus optional
// metadata for the day record it creates or updates.
type UploadPathRequest struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
	Title    string `json:"title,omitempty"`
	Date     string `json:"date,omitempty"`
	DayID    string `json:"dayId,omitempty"`
}

// UploadPathResponse is the result of a successful path upload.
type UploadPathResponse struct {
	Day         dayhistory.Day `json:"day"`
	ActiveDayID string         `json:"activeDayId"`
}
