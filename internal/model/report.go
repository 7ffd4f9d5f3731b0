package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ResolvedYes is the problem-resolved flag value that makes the problem
// start/end times mandatory.
const ResolvedYes = "yes"

// ID is a server identifier. The backend emits numeric ids for some
// resources and strings for others; both decode into the same value.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding id %s: %w", string(data), err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// OnlineSupport describes remote help the engineer needed for a problem.
type OnlineSupport struct {
	Problem      string `json:"problem"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	EngineerName string `json:"engineer_name"`
}

// Required reports whether online support was requested at all.
func (s OnlineSupport) Required() bool {
	return strings.TrimSpace(s.Problem) != ""
}

// ProblemReport is the problem section of an hourly entry.
type ProblemReport struct {
	Description string        `json:"description"`
	Resolved    string        `json:"resolved"` // "yes", "no" or empty
	StartTime   string        `json:"start_time"`
	EndTime     string        `json:"end_time"`
	Support     OnlineSupport `json:"support"`
}

// IsResolved reports whether the resolved flag is "yes" (case-insensitive).
func (p ProblemReport) IsResolved() bool {
	return strings.EqualFold(strings.TrimSpace(p.Resolved), ResolvedYes)
}

// HourlyEntry is the editable draft for one period.
type HourlyEntry struct {
	Activity       string        `json:"activity"`
	Achievement    string        `json:"achievement"`
	Problem        ProblemReport `json:"problem"`
	EngineerRemark string        `json:"engineer_remark"`
	InchargeRemark string        `json:"incharge_remark"`
}

// IsEmpty reports whether nothing has been entered yet.
func (e HourlyEntry) IsEmpty() bool {
	return e == HourlyEntry{}
}

// Header carries the project-level fields sent along with every hourly report.
type Header struct {
	ProjectName        string `json:"projectName"`
	DailyTargetPlanned string `json:"dailyTargetPlanned"`
	CustomerName       string `json:"customerName,omitempty"`
	ProjectIncharge    string `json:"projectIncharge,omitempty"`
	SiteLocation       string `json:"siteLocation,omitempty"`
	SiteStartDate      string `json:"siteStartDate,omitempty"`
	SiteEndDate        string `json:"siteEndDate,omitempty"`
}

// ExistingReport is a server-confirmed hourly report as returned by
// GET /hourly-report/{date}.
type ExistingReport struct {
	ID                 ID     `json:"id"`
	ReportDate         string `json:"report_date"`
	TimePeriod         string `json:"time_period"`
	PeriodName         string `json:"period_name"`
	ProjectName        string `json:"project_name"`
	DailyTargetPlanned string `json:"daily_target_planned"`
	HourlyActivity     string `json:"hourly_activity"`
	HourlyAchieved     string `json:"hourly_achieved"`

	ProblemFacedByEngineerHourly         string `json:"problem_faced_by_engineer_hourly"`
	ProblemResolvedOrNot                 string `json:"problem_resolved_or_not"`
	ProblemOccurStartTime                string `json:"problem_occur_start_time"`
	ProblemResolvedEndTime               string `json:"problem_resolved_end_time"`
	OnlineSupportRequiredForWhichProblem string `json:"online_support_required_for_which_problem"`
	OnlineSupportTime                    string `json:"online_support_time"`
	OnlineSupportEndTime                 string `json:"online_support_end_time"`
	EngineerNameWhoGivesOnlineSupport    string `json:"engineer_name_who_gives_online_support"`

	EngineerRemark        string `json:"engineer_remark"`
	ProjectInchargeRemark string `json:"project_incharge_remark"`
	EmployeeID            ID     `json:"employee_id"`
	EmployeeName          string `json:"employee_name"`
	CreatedAt             string `json:"created_at"`
}

// Entry converts the server representation back into an editable entry.
func (r ExistingReport) Entry() HourlyEntry {
	return HourlyEntry{
		Activity:    r.HourlyActivity,
		Achievement: r.HourlyAchieved,
		Problem: ProblemReport{
			Description: r.ProblemFacedByEngineerHourly,
			Resolved:    r.ProblemResolvedOrNot,
			StartTime:   r.ProblemOccurStartTime,
			EndTime:     r.ProblemResolvedEndTime,
			Support: OnlineSupport{
				Problem:      r.OnlineSupportRequiredForWhichProblem,
				StartTime:    r.OnlineSupportTime,
				EndTime:      r.OnlineSupportEndTime,
				EngineerName: r.EngineerNameWhoGivesOnlineSupport,
			},
		},
		EngineerRemark: r.EngineerRemark,
		InchargeRemark: r.ProjectInchargeRemark,
	}
}

// ReportPayload is the body of POST /hourly-report and PUT /hourly-report/{id}.
type ReportPayload struct {
	ReportDate         string `json:"reportDate"`
	TimePeriod         string `json:"timePeriod"`
	PeriodName         string `json:"periodName"`
	ProjectName        string `json:"projectName"`
	DailyTargetPlanned string `json:"dailyTargetPlanned"`
	HourlyActivity     string `json:"hourlyActivity"`
	HourlyAchieved     string `json:"hourlyAchieved"`

	ProblemFacedByEngineerHourly         string `json:"problemFacedByEngineerHourly"`
	ProblemResolvedOrNot                 string `json:"problemResolvedOrNot"`
	ProblemOccurStartTime                string `json:"problemOccurStartTime"`
	ProblemResolvedEndTime               string `json:"problemResolvedEndTime"`
	OnlineSupportRequiredForWhichProblem string `json:"onlineSupportRequiredForWhichProblem"`
	OnlineSupportTime                    string `json:"onlineSupportTime"`
	OnlineSupportEndTime                 string `json:"onlineSupportEndTime"`
	EngineerNameWhoGivesOnlineSupport    string `json:"engineerNameWhoGivesOnlineSupport"`

	EngineerRemark        string `json:"engineerRemark"`
	ProjectInchargeRemark string `json:"projectInchargeRemark"`
	EmployeeID            string `json:"employee_id"`
	EmployeeName          string `json:"employee_name"`

	CustomerName    string `json:"customerName,omitempty"`
	ProjectIncharge string `json:"projectIncharge,omitempty"`
	SiteLocation    string `json:"siteLocation,omitempty"`
	SiteStartDate   string `json:"siteStartDate,omitempty"`
	SiteEndDate     string `json:"siteEndDate,omitempty"`
}

// NewReportPayload flattens an entry and its header into the wire body.
func NewReportPayload(date, label, periodName string, e HourlyEntry, h Header, employeeID, employeeName string) ReportPayload {
	return ReportPayload{
		ReportDate:         date,
		TimePeriod:         label,
		PeriodName:         periodName,
		ProjectName:        h.ProjectName,
		DailyTargetPlanned: h.DailyTargetPlanned,
		HourlyActivity:     e.Activity,
		HourlyAchieved:     e.Achievement,

		ProblemFacedByEngineerHourly:         e.Problem.Description,
		ProblemResolvedOrNot:                 e.Problem.Resolved,
		ProblemOccurStartTime:                e.Problem.StartTime,
		ProblemResolvedEndTime:               e.Problem.EndTime,
		OnlineSupportRequiredForWhichProblem: e.Problem.Support.Problem,
		OnlineSupportTime:                    e.Problem.Support.StartTime,
		OnlineSupportEndTime:                 e.Problem.Support.EndTime,
		EngineerNameWhoGivesOnlineSupport:    e.Problem.Support.EngineerName,

		EngineerRemark:        e.EngineerRemark,
		ProjectInchargeRemark: e.InchargeRemark,
		EmployeeID:            employeeID,
		EmployeeName:          employeeName,

		CustomerName:    h.CustomerName,
		ProjectIncharge: h.ProjectIncharge,
		SiteLocation:    h.SiteLocation,
		SiteStartDate:   h.SiteStartDate,
		SiteEndDate:     h.SiteEndDate,
	}
}

// Entry returns the hourly entry carried by the payload.
func (p ReportPayload) Entry() HourlyEntry {
	return HourlyEntry{
		Activity:    p.HourlyActivity,
		Achievement: p.HourlyAchieved,
		Problem: ProblemReport{
			Description: p.ProblemFacedByEngineerHourly,
			Resolved:    p.ProblemResolvedOrNot,
			StartTime:   p.ProblemOccurStartTime,
			EndTime:     p.ProblemResolvedEndTime,
			Support: OnlineSupport{
				Problem:      p.OnlineSupportRequiredForWhichProblem,
				StartTime:    p.OnlineSupportTime,
				EndTime:      p.OnlineSupportEndTime,
				EngineerName: p.EngineerNameWhoGivesOnlineSupport,
			},
		},
		EngineerRemark: p.EngineerRemark,
		InchargeRemark: p.ProjectInchargeRemark,
	}
}

// Header returns the project fields carried by the payload.
func (p ReportPayload) Header() Header {
	return Header{
		ProjectName:        p.ProjectName,
		DailyTargetPlanned: p.DailyTargetPlanned,
		CustomerName:       p.CustomerName,
		ProjectIncharge:    p.ProjectIncharge,
		SiteLocation:       p.SiteLocation,
		SiteStartDate:      p.SiteStartDate,
		SiteEndDate:        p.SiteEndDate,
	}
}
