// internal/ticpe/answers.go
package ticpe

import (
	"encoding/json"
	"fmt"
)

// Answer is one questionnaire response: a question identifier and either a
// single choice or a list of choices. Order of answers is irrelevant; a later
// duplicate of the same question overwrites the earlier one at extraction.
type Answer struct {
	QuestionID string `json:"question_id"`
	Value      Value  `json:"value"`
}

// Value holds an answer payload. Questionnaires send either a plain string or
// a string array; any other JSON shape is a caller bug and is rejected at
// decode time.
type Value struct {
	choices []string
	isList  bool
}

// StringValue builds a single-choice value.
func StringValue(s string) Value {
	return Value{choices: []string{s}}
}

// ListValue builds a multi-choice value.
func ListValue(ss ...string) Value {
	return Value{choices: ss, isList: true}
}

// First returns the single choice, or the first of a list. Empty values
// yield "".
func (v Value) First() string {
	if len(v.choices) == 0 {
		return ""
	}
	return v.choices[0]
}

// List returns all choices. A single-choice value is a one-element list.
func (v Value) List() []string {
	return v.choices
}

// IsEmpty reports whether the value carries no choices at all.
func (v Value) IsEmpty() bool {
	return len(v.choices) == 0
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.choices = []string{s}
		v.isList = false
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		v.choices = list
		v.isList = true
		return nil
	}

	return fmt.Errorf("answer value must be a string or a string array, got %s", string(data))
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		return json.Marshal(v.choices)
	}
	return json.Marshal(v.First())
}
