package domain

// BiologyClass is a teaching group listed on the home view.
type BiologyClass struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Student is a member of a class.
type Student struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Histogram buckets student percentages for the latest test.
type Histogram struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// ClassSummary describes the latest test of a class. Message is set instead
// of the other fields when the class has no tests yet.
type ClassSummary struct {
	Message                string     `json:"message,omitempty"`
	LatestTestTitle        string     `json:"latest_test_title,omitempty"`
	TestFileLink           string     `json:"test_file_link,omitempty"`
	AverageScorePercentage float64    `json:"average_score_percentage"`
	RedFlagCount           int        `json:"red_flag_count"`
	Histogram              *Histogram `json:"histogram_data,omitempty"`
}

// ClassDetails backs the class-detail view.
type ClassDetails struct {
	ClassInfo BiologyClass `json:"class_info"`
	Students  []Student    `json:"students"`
	Summary   ClassSummary `json:"summary"`
}

// DashboardStats is rendered as-is on the home view.
type DashboardStats map[string]interface{}
