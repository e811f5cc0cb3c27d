package dto

type AddStopRequest struct {
	Identifier  string `json:"identifier"`
	Coordinates string `json:"coordinates"`
	Urgent      bool   `json:"urgent"`
}

type StopResponse struct {
	Identifier string  `json:"identifier"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	Priority   string  `json:"priority"`
	Urgent     bool    `json:"urgent"`
}

type ListStopsResponse struct {
	Stops []StopResponse `json:"stops"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}
