package dto

type RouteRequest struct {
	Mode string `json:"mode"`
}

type RouteRowResponse struct {
	Ordine  int     `json:"ordine"`
	Tipo    string  `json:"tipo"`
	Cliente string  `json:"cliente"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type RouteResponse struct {
	Mode                string             `json:"mode"`
	TotalDistanceMeters float64            `json:"total_distance_meters"`
	TotalKm             float64            `json:"total_km"`
	Summary             string             `json:"summary"`
	Rows                []RouteRowResponse `json:"rows"`
}
