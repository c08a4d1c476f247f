package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateActivityContent(t *testing.T) {
	cases := []struct {
		name    string
		aType   ActivityType
		content string
		wantErr bool
	}{
		{
			name:    "valid quiz",
			aType:   ActivityTypeQuiz,
			content: `{"questions": [{"question": "What is phishing?", "options": ["a", "b"], "correctAnswer": 0}]}`,
		},
		{
			name:    "quiz without questions",
			aType:   ActivityTypeQuiz,
			content: `{"questions": []}`,
			wantErr: true,
		},
		{
			name:    "quiz with out-of-range answer",
			aType:   ActivityTypeQuiz,
			content: `{"questions": [{"question": "q", "options": ["a", "b"], "correctAnswer": 2}]}`,
			wantErr: true,
		},
		{
			name:    "quiz with one option",
			aType:   ActivityTypeQuiz,
			content: `{"questions": [{"question": "q", "options": ["a"], "correctAnswer": 0}]}`,
			wantErr: true,
		},
		{
			name:    "valid code challenge",
			aType:   ActivityTypeCodeChallenge,
			content: `{"prompt": "Sanitize this SQL query", "starterCode": "SELECT"}`,
		},
		{
			name:    "code challenge without prompt",
			aType:   ActivityTypeCodeChallenge,
			content: `{"starterCode": "SELECT"}`,
			wantErr: true,
		},
		{
			name:    "valid lab",
			aType:   ActivityTypeLab,
			content: `{"instructions": "Scan the host", "tasks": ["run nmap"]}`,
		},
		{
			name:    "lab without tasks",
			aType:   ActivityTypeLab,
			content: `{"instructions": "Scan the host", "tasks": []}`,
			wantErr: true,
		},
		{
			name:    "valid simulation",
			aType:   ActivityTypeSimulation,
			content: `{"scenario": "Phishing email arrives", "steps": ["inspect headers"]}`,
		},
		{
			name:    "valid reading",
			aType:   ActivityTypeReading,
			content: `{"body": "Defense in depth layers controls."}`,
		},
		{
			name:    "reading without body",
			aType:   ActivityTypeReading,
			content: `{}`,
			wantErr: true,
		},
		{
			name:    "empty content",
			aType:   ActivityTypeQuiz,
			content: ``,
			wantErr: true,
		},
		{
			name:    "unknown type",
			aType:   ActivityType("podcast"),
			content: `{}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			aType:   ActivityTypeReading,
			content: `{"body": `,
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateActivityContent(tc.aType, []byte(tc.content))
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
