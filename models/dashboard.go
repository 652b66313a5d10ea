package models

// CaseStats are the case counters shown on the dashboard
type CaseStats struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	Closed         int     `json:"closed"`
	Unverified     int     `json:"unverified"`
	TotalRecovered float64 `json:"totalRecovered"`
}

// UserStats are the user counters shown on the dashboard
type UserStats struct {
	Total int `json:"total"`
}

// DashboardStats groups every dashboard counter
type DashboardStats struct {
	Cases  CaseStats  `json:"cases"`
	Alerts AlertStats `json:"alerts"`
	Users  UserStats  `json:"users"`
}

// DashboardData is the landing page rollup
type DashboardData struct {
	Stats        DashboardStats `json:"stats"`
	RecentCases  []Case         `json:"recentCases"`
	RecentAlerts []Alert        `json:"recentAlerts"`
}
