package v1

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status alert group status as encoded by the api
type Status int

// Alert group statuses
const (
	StatusFiring Status = iota
	StatusAcknowledged
	StatusResolved
	StatusSilenced
)

var statusNames = map[Status]string{
	StatusFiring:       "firing",
	StatusAcknowledged: "acknowledged",
	StatusResolved:     "resolved",
	StatusSilenced:     "silenced",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus parses a status name, case insensitive, or its numeric code
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if strings.EqualFold(name, s) {
			return status, nil
		}
	}
	if code, err := strconv.Atoi(s); err == nil {
		if _, ok := statusNames[Status(code)]; ok {
			return Status(code), nil
		}
	}
	return 0, fmt.Errorf("unknown alert group status %q", s)
}

// AlertGroup top-level type definition, one incident record
type AlertGroup struct {
	PK     string
	Status Status
	// Fields holds every field returned by the api, pk and status included
	Fields map[string]interface{}

	Loading    bool
	UndoAction Action
}

// UnmarshalJSON keeps all api fields and lifts pk and status
func (ag *AlertGroup) UnmarshalJSON(data []byte) error {
	fields := map[string]interface{}{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	ag.Fields = fields
	ag.liftKnownFields()
	return nil
}

// MarshalJSON writes api fields together with the transient ui fields
func (ag *AlertGroup) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(ag.Fields)+3)
	for k, v := range ag.Fields {
		out[k] = v
	}
	out["pk"] = ag.PK
	out["status"] = int(ag.Status)
	out["loading"] = ag.Loading
	if ag.UndoAction != "" {
		out["undoAction"] = ag.UndoAction
	}
	return json.Marshal(out)
}

func (ag *AlertGroup) liftKnownFields() {
	switch pk := ag.Fields["pk"].(type) {
	case string:
		ag.PK = pk
	case float64:
		ag.PK = strconv.FormatInt(int64(pk), 10)
	}
	if status, ok := ag.Fields["status"].(float64); ok {
		ag.Status = Status(int(status))
	}
}

// Merge shallow-overwrites the api fields of ag with the ones of update.
// Transient fields are left alone.
func (ag *AlertGroup) Merge(update *AlertGroup) {
	if update == nil {
		return
	}
	if ag.Fields == nil {
		ag.Fields = make(map[string]interface{}, len(update.Fields))
	}
	for k, v := range update.Fields {
		ag.Fields[k] = v
	}
	if update.PK != "" {
		ag.PK = update.PK
	}
	if _, ok := update.Fields["status"]; ok {
		ag.Status = update.Status
	}
}

// Clone returns a copy safe to hand out of the store
func (ag *AlertGroup) Clone() *AlertGroup {
	if ag == nil {
		return nil
	}
	c := *ag
	c.Fields = make(map[string]interface{}, len(ag.Fields))
	for k, v := range ag.Fields {
		c.Fields[k] = v
	}
	return &c
}

// PageResult stored result set of one query key
type PageResult struct {
	Prev     *string  `json:"prev"`
	Next     *string  `json:"next"`
	Results  []string `json:"results"`
	PageSize int      `json:"page_size"`
}

// Page resolved read model of a PageResult
type Page struct {
	Prev     *string       `json:"prev"`
	Next     *string       `json:"next"`
	PageSize int           `json:"page_size"`
	Results  []*AlertGroup `json:"results"`
}

// ListResponse raw paginated list response
type ListResponse struct {
	Results  []*AlertGroup `json:"results"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	PageSize int           `json:"page_size"`
}

// StatsSummary response of the stats endpoint
type StatsSummary struct {
	Count int `json:"count"`
}

// Column display column of the alert group table
type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ColumnSettings persisted display-column configuration
type ColumnSettings struct {
	Visible []Column `json:"visible"`
	Hidden  []Column `json:"hidden"`
	Default bool     `json:"default,omitempty"`
}

// LabelKey definition
type LabelKey struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LabelValue definition
type LabelValue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LabelOption a key with its matching values
type LabelOption struct {
	Key    LabelKey     `json:"key"`
	Values []LabelValue `json:"values"`
}
