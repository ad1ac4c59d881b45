package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput_SendMessage(t *testing.T) {
	tests := []struct {
		name   string
		input  SendMessageInput
		fields []string
	}{
		{
			name:  "valid",
			input: SendMessageInput{StudentID: 1, SubjectID: 10, Question: "ما هو الجمع؟"},
		},
		{
			name:   "zero ids",
			input:  SendMessageInput{Question: "q"},
			fields: []string{"student_id", "subject_id"},
		},
		{
			name:   "blank question",
			input:  SendMessageInput{StudentID: 1, SubjectID: 1, Question: "  \n\t"},
			fields: []string{"question"},
		},
		{
			name:   "question too long",
			input:  SendMessageInput{StudentID: 1, SubjectID: 1, Question: strings.Repeat("س", MaxQuestionRunes+1)},
			fields: []string{"question"},
		},
		{
			name:  "question at limit counts runes not bytes",
			input: SendMessageInput{StudentID: 1, SubjectID: 1, Question: strings.Repeat("س", MaxQuestionRunes)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.input)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"subject_id": "subject_id must be greater than 0",
		"question":   "this field cannot be blank",
	}}

	assert.Equal(t,
		"validation failed: question: this field cannot be blank; subject_id: subject_id must be greater than 0",
		err.Error())
}
