package model

// DailyAggregate is the per-project, per-date summary record stored under
// /daily-target.
type DailyAggregate struct {
	ID                  ID     `json:"id,omitempty"`
	ReportDate          string `json:"reportDate"`
	ProjectName         string `json:"projectName"`
	CustomerName        string `json:"customerName"`
	ProjectIncharge     string `json:"projectIncharge"`
	SiteLocation        string `json:"siteLocation"`
	SiteStartDate       string `json:"siteStartDate"`
	SiteEndDate         string `json:"siteEndDate"`
	DailyTargetPlanned  string `json:"dailyTargetPlanned"`
	DailyTargetAchieved string `json:"dailyTargetAchieved"`
	AdditionalActivity  string `json:"additionalActivity"`
	ProblemFaced        string `json:"problemFaced"`
}

// DateCheck is the response of GET /daily-target/check-report-date.
type DateCheck struct {
	Exists bool `json:"exists"`
	ID     ID   `json:"id"`
}

// Project is one project the employee is assigned to.
type Project struct {
	ID              ID     `json:"id"`
	ProjectName     string `json:"projectName"`
	CustomerName    string `json:"customerName"`
	ProjectIncharge string `json:"projectIncharge"`
	SiteLocation    string `json:"siteLocation"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
}

// Header returns the report header fields derived from the project record.
func (p Project) Header() Header {
	return Header{
		ProjectName:     p.ProjectName,
		CustomerName:    p.CustomerName,
		ProjectIncharge: p.ProjectIncharge,
		SiteLocation:    p.SiteLocation,
		SiteStartDate:   p.StartDate,
		SiteEndDate:     p.EndDate,
	}
}
