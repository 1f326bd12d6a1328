package model

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type MistakeStatItem struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

type ActiveSessionsResponse struct {
	Count int     `json:"count"`
	Users []int64 `json:"users"`
}

type QuotaResponse struct {
	User      int64 `json:"user"`
	UsedToday int   `json:"used_today"`
	MaxPerDay int   `json:"max_per_day"`
}
