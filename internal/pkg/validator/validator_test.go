package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2024-01-31", "2024-02-29"}
	invalid := []string{"2023-02-29", "2024-13-01", "31-01-2024", ""}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	_, ok := IsValidDateTime("2024-01-15T10:30:00+05:30")
	assert.True(t, ok)
	_, ok = IsValidDateTime("2024-01-15T10:30:00.123Z")
	assert.True(t, ok)
	_, ok = IsValidDateTime("2024-01-15 10:30")
	assert.False(t, ok)
}

type sampleRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Date   string `json:"date" validate:"required,date"`
	Start  string `json:"start,omitempty" validate:"omitempty,clock"`
	Kind   string `json:"kind" validate:"oneof=full half"`
	Month  int    `json:"month" validate:"min=1,max=12"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	errs := Struct(sampleRequest{
		UserID: "not-a-uuid",
		Date:   "2024/01/01",
		Start:  "9am",
		Kind:   "quarter",
		Month:  13,
	})
	require.Len(t, errs, 5)

	m := errs.ToMap()
	assert.Equal(t, "user_id must be a valid UUID", m["user_id"])
	assert.Equal(t, "date must be a date in YYYY-MM-DD format", m["date"])
	assert.Equal(t, "start must be a time in HH:MM format", m["start"])
	assert.Equal(t, "kind must be one of [full half]", m["kind"])
	assert.Equal(t, "month must not exceed 12", m["month"])
}

func TestStruct_Valid(t *testing.T) {
	errs := Struct(sampleRequest{
		UserID: "0188d0f2-7b8c-4b4a-8a2b-6b8b8b8b8b8b",
		Date:   "2024-01-01",
		Kind:   "full",
		Month:  1,
	})
	assert.Nil(t, errs)
	assert.NoError(t, errs.Err())
}

func TestValidationErrors_AddAndErr(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("to_date", "to_date must not be before from_date")
	err := errs.Err()
	require.Error(t, err)
	assert.Equal(t, "to_date: to_date must not be before from_date", err.Error())

	var target ValidationErrors
	assert.ErrorAs(t, err, &target)
}
