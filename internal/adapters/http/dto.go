package web

import (
	"time"

	"dojoroster/internal/application/projections"
	"dojoroster/internal/domain/admin"
	"dojoroster/internal/domain/assignment"
	"dojoroster/internal/domain/club"
	"dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/override"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/roster"
	"dojoroster/internal/domain/slot"
	"dojoroster/internal/domain/weekly"
)

// Request bodies. Dates are YYYY-MM-DD, times HH:MM.

type signUpRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	SlotKind  string `json:"slot_kind" validate:"required,oneof=regular extra"`
	SlotID    int64  `json:"slot_id" validate:"required,gt=0"`
	TrainerID string `json:"trainer_id" validate:"omitempty,uuid"`
	Remark    string `json:"remark" validate:"max=500"`
}

type templateRequest struct {
	Weekday   *int   `json:"weekday" validate:"required,min=0,max=6"`
	TimeStart string `json:"time_start" validate:"required"`
	TimeEnd   string `json:"time_end"`
}

type overrideRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=cancel extra event"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	TemplateID int64  `json:"template_id" validate:"required_if=Kind cancel,gte=0"`
	TimeStart  string `json:"time_start"`
	TimeEnd    string `json:"time_end"`
	Reason     string `json:"reason" validate:"max=2000"`
}

type overrideUpdateRequest struct {
	Kind      string `json:"kind" validate:"omitempty,oneof=cancel extra event"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
	Reason    string `json:"reason" validate:"max=2000"`
}

type assignmentRequest struct {
	TemplateID int64  `json:"template_id" validate:"required,gt=0"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Notes      string `json:"notes" validate:"max=500"`
}

type createTrainerRequest struct {
	Name        string              `json:"name" validate:"required,max=120"`
	Email       string              `json:"email" validate:"required,email"`
	Assignments []assignmentRequest `json:"assignments" validate:"required,min=1,dive"`
}

type promoteRequest struct {
	TrainerID  string `json:"trainer_id" validate:"required,uuid"`
	SuperAdmin bool   `json:"super_admin"`
}

type createAdminRequest struct {
	Username   string `json:"username" validate:"required,max=80"`
	Email      string `json:"email" validate:"omitempty,email"`
	FullName   string `json:"full_name" validate:"max=120"`
	SuperAdmin bool   `json:"super_admin"`
	ClubID     string `json:"club_id" validate:"required_unless=SuperAdmin true"`
}

type clubRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	City       string `json:"city" validate:"max=120"`
	Slug       string `json:"slug" validate:"required,max=60"`
	Address    string `json:"address" validate:"max=200"`
	WebsiteURL string `json:"website_url" validate:"omitempty,url"`
}

type revokeRequest struct {
	AdminID int64 `json:"admin_id" validate:"required,gt=0"`
}

type sessionRequest struct {
	Token string `json:"token" validate:"required"`
}

// Response bodies.

type clubDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Slug       string `json:"slug"`
	Address    string `json:"address,omitempty"`
	WebsiteURL string `json:"website_url,omitempty"`
}

func toClubDTO(c club.Club) clubDTO {
	return clubDTO{ID: c.ID, Name: c.Name, City: c.City, Slug: c.Slug, Address: c.Address, WebsiteURL: c.WebsiteURL}
}

type slotDTO struct {
	Key          string `json:"key"`
	Date         string `json:"date"`
	Weekday      int    `json:"weekday"`
	TimeStart    string `json:"time_start"`
	TimeEnd      string `json:"time_end,omitempty"`
	TemplateID   *int64 `json:"template_id,omitempty"`
	OverrideID   *int64 `json:"override_id,omitempty"`
	Cancelled    bool   `json:"cancelled"`
	Extra        bool   `json:"extra"`
	Event        bool   `json:"event"`
	TakesSignUps bool   `json:"takes_sign_ups"`
	Reason       string `json:"reason,omitempty"`
	ReasonHTML   string `json:"reason_html,omitempty"`
}

func toSlotDTO(s slot.Slot) slotDTO {
	dto := slotDTO{
		Key:          s.Key().String(),
		Date:         s.DateString(),
		Weekday:      int(s.Weekday),
		TimeStart:    s.TimeStart,
		TimeEnd:      s.TimeEnd,
		OverrideID:   s.OverrideID,
		Cancelled:    s.Cancelled,
		Extra:        s.Extra,
		Event:        s.Event,
		TakesSignUps: s.TakesSignUps(),
		Reason:       s.Reason,
		ReasonHTML:   renderReason(s.Reason),
	}
	if s.TemplateID != slot.SentinelTemplateID {
		id := s.TemplateID
		dto.TemplateID = &id
	}
	return dto
}

type entryDTO struct {
	Ref          string `json:"ref"`
	ID           int64  `json:"id,omitempty"`
	AssignmentID int64  `json:"assignment_id,omitempty"`
	Scheduled    bool   `json:"scheduled"`
	Slot         string `json:"slot"`
	Date         string `json:"date"`
	TrainerID    string `json:"trainer_id"`
	TrainerName  string `json:"trainer_name"`
	Remark       string `json:"remark,omitempty"`
}

func toEntryDTO(e entry.Entry) entryDTO {
	dto := entryDTO{
		Ref:         e.Ref.String(),
		Scheduled:   e.IsScheduled(),
		Slot:        e.Slot.String(),
		Date:        period.FormatDate(e.Date),
		TrainerID:   e.TrainerID,
		TrainerName: e.TrainerName,
		Remark:      e.Remark,
	}
	switch ref := e.Ref.(type) {
	case entry.RealRef:
		dto.ID = ref.ID
	case entry.ScheduledRef:
		dto.AssignmentID = ref.AssignmentID
	}
	return dto
}

func toEntryDTOs(entries []entry.Entry) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}
	return out
}

type slotRosterDTO struct {
	Slot    slotDTO    `json:"slot"`
	Entries []entryDTO `json:"entries"`
}

func toSlotRosterDTOs(rosters []projections.SlotRoster) []slotRosterDTO {
	out := make([]slotRosterDTO, 0, len(rosters))
	for _, sr := range rosters {
		out = append(out, slotRosterDTO{Slot: toSlotDTO(sr.Slot), Entries: toEntryDTOs(sr.Entries)})
	}
	return out
}

type dayDTO struct {
	Date     string          `json:"date"`
	Training bool            `json:"training"`
	Slots    []slotRosterDTO `json:"slots"`
}

type scheduleDTO struct {
	Start   string    `json:"start"`
	End     string    `json:"end"`
	Days    []dayDTO  `json:"days"`
	Missing []slotDTO `json:"missing"`
	Grid    []string  `json:"grid,omitempty"`
}

func toScheduleDTO(res projections.GetClubScheduleResult) scheduleDTO {
	dto := scheduleDTO{
		Start:   period.FormatDate(res.Period.Start),
		End:     period.FormatDate(res.Period.End),
		Days:    make([]dayDTO, 0, len(res.Days)),
		Missing: make([]slotDTO, 0, len(res.Missing)),
	}
	for _, d := range res.Days {
		dto.Days = append(dto.Days, dayDTO{Date: period.FormatDate(d.Date), Training: d.Training, Slots: toSlotRosterDTOs(d.Slots)})
	}
	for _, s := range res.Missing {
		dto.Missing = append(dto.Missing, toSlotDTO(s))
	}
	for _, d := range res.Grid {
		dto.Grid = append(dto.Grid, period.FormatDate(d))
	}
	return dto
}

type bindingDTO struct {
	Slot  slotDTO  `json:"slot"`
	Entry entryDTO `json:"entry"`
}

type monthGroupDTO struct {
	Month    string       `json:"month"`
	Bindings []bindingDTO `json:"bindings"`
}

type profileDTO struct {
	TrainerID       string          `json:"trainer_id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Next            *bindingDTO     `json:"next,omitempty"`
	Upcoming        []monthGroupDTO `json:"upcoming"`
	Past            []monthGroupDTO `json:"past"`
	AvailableMonths []string        `json:"available_months"`
	Month           string          `json:"month,omitempty"`
}

func toBindingDTO(b roster.Binding) bindingDTO {
	return bindingDTO{Slot: toSlotDTO(b.Slot), Entry: toEntryDTO(b.Entry)}
}

func toMonthGroupDTOs(groups []projections.MonthGroup) []monthGroupDTO {
	out := make([]monthGroupDTO, 0, len(groups))
	for _, g := range groups {
		bindings := make([]bindingDTO, 0, len(g.Bindings))
		for _, b := range g.Bindings {
			bindings = append(bindings, toBindingDTO(b))
		}
		out = append(out, monthGroupDTO{Month: g.Month, Bindings: bindings})
	}
	return out
}

func toProfileDTO(res projections.GetTrainerProfileResult) profileDTO {
	dto := profileDTO{
		TrainerID:       res.Trainer.ID,
		Name:            res.Trainer.Name,
		Email:           res.Trainer.Email,
		Upcoming:        toMonthGroupDTOs(res.Upcoming),
		Past:            toMonthGroupDTOs(res.Past),
		AvailableMonths: res.AvailableMonths,
		Month:           res.Month,
	}
	if dto.AvailableMonths == nil {
		dto.AvailableMonths = []string{}
	}
	if res.Next != nil {
		next := toBindingDTO(*res.Next)
		dto.Next = &next
	}
	return dto
}

type templateDTO struct {
	ID        int64  `json:"id"`
	Weekday   int    `json:"weekday"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end,omitempty"`
	Active    bool   `json:"active"`
}

func toTemplateDTO(t weekly.Template) templateDTO {
	return templateDTO{ID: t.ID, Weekday: int(t.Weekday), TimeStart: t.TimeStart, TimeEnd: t.TimeEnd, Active: t.Active}
}

type overrideDTO struct {
	ID             int64  `json:"id"`
	Kind           string `json:"kind"`
	Date           string `json:"date"`
	TemplateID     *int64 `json:"template_id,omitempty"`
	TimeStart      string `json:"time_start,omitempty"`
	TimeEnd        string `json:"time_end,omitempty"`
	Reason         string `json:"reason,omitempty"`
	ReasonHTML     string `json:"reason_html,omitempty"`
	RequiresRoster bool   `json:"requires_roster"`
}

func toOverrideDTO(o override.Override) overrideDTO {
	return overrideDTO{
		ID:             o.ID,
		Kind:           string(o.Kind),
		Date:           period.FormatDate(o.Date),
		TemplateID:     o.TemplateID,
		TimeStart:      o.TimeStart,
		TimeEnd:        o.TimeEnd,
		Reason:         o.Reason,
		ReasonHTML:     renderReason(o.Reason),
		RequiresRoster: o.RequiresRoster(),
	}
}

type assignmentDTO struct {
	ID         int64  `json:"id"`
	TrainerID  string `json:"trainer_id"`
	TemplateID int64  `json:"template_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func toAssignmentDTO(a assignment.Assignment) assignmentDTO {
	dto := assignmentDTO{
		ID:         a.ID,
		TrainerID:  a.TrainerID,
		TemplateID: a.TemplateID,
		StartDate:  period.FormatDate(a.StartDate),
		Notes:      a.Notes,
	}
	if a.EndDate != nil {
		dto.EndDate = period.FormatDate(*a.EndDate)
	}
	return dto
}

type adminDTO struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	SuperAdmin bool   `json:"super_admin"`
	ClubID     string `json:"club_id,omitempty"`
}

func toAdminDTO(a admin.Admin) adminDTO {
	return adminDTO{ID: a.ID, Username: a.Username, Email: a.Email, SuperAdmin: a.SuperAdmin, ClubID: a.ClubID}
}

type sessionDTO struct {
	Subject    string    `json:"subject"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	Role       string    `json:"role"`
	ClubID     string    `json:"club_id,omitempty"`
	SuperAdmin bool      `json:"super_admin"`
	ExpiresAt  time.Time `json:"expires_at"`
}
