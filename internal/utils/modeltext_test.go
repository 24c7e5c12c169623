package utils

import (
	"reflect"
	"testing"
)

func TestParseModelOutput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"intent":"book","room":"SJT 315","date":"11 Sept"}`,
			want: map[string]string{
				"intent": "book",
				"room":   "SJT 315",
				"date":   "11 Sept",
			},
			wantErr: false,
		},
		{
			name: "JSON in markdown code block",
			input: "```json\n" +
				`{"intent":"cancel","booking_id":"BK-2021"}` + "\n```",
			want: map[string]string{
				"intent":     "cancel",
				"booking_id": "BK-2021",
			},
			wantErr: false,
		},
		{
			name:  "JSON with surrounding chatter",
			input: `Sure! Here is the extraction: {"intent":"book","start":"4 pm","end":"6 pm"} hope that helps.`,
			want: map[string]string{
				"intent": "book",
				"start":  "4 pm",
				"end":    "6 pm",
			},
			wantErr: false,
		},
		{
			name:  "Non-string values dropped",
			input: `{"intent":"book","confidence":0.9,"room":"TT 101"}`,
			want: map[string]string{
				"intent": "book",
				"room":   "TT 101",
			},
			wantErr: false,
		},
		{
			name:  "Key value fallback",
			input: "Intent: book\nRoom: SJT 315\nBooking ID: BK-9\nSomething else entirely",
			want: map[string]string{
				"intent":     "book",
				"room":       "SJT 315",
				"booking_id": "BK-9",
			},
			wantErr: false,
		},
		{
			name:  "Key value fallback ignores unknown keys",
			input: "Mood: great\nRoom: LH-204",
			want: map[string]string{
				"room": "LH-204",
			},
			wantErr: false,
		},
		{
			name:    "Empty string",
			input:   "",
			want:    nil,
			wantErr: true,
		},
		{
			name:    "Pure chatter",
			input:   "I could not find any booking details in that message.",
			want:    nil,
			wantErr: true,
		},
		{
			name:    "Unbalanced braces and no key lines",
			input:   "{ this never closes",
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModelOutput(tt.input)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModelOutput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseModelOutput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractFirstJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Braces inside strings are not counted",
			input: `{"note":"a } inside","intent":"book"}`,
			want:  `{"note":"a } inside","intent":"book"}`,
		},
		{
			name:  "First of several objects wins",
			input: `{"a":"1"} {"b":"2"}`,
			want:  `{"a":"1"}`,
		},
		{
			name:  "Nested objects stay balanced",
			input: `prefix {"outer":{"inner":"x"}} suffix`,
			want:  `{"outer":{"inner":"x"}}`,
		},
		{
			name:  "No object",
			input: "nothing here",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFirstJSON(tt.input); got != tt.want {
				t.Errorf("ExtractFirstJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
