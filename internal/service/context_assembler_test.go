package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Freeeeeet/edu_platform/internal/llm"
	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		maxRunes int
		want     string
	}{
		{"shorter than limit", "abc", 5, "abc"},
		{"exact limit", "abcde", 5, "abcde"},
		{"ascii truncated", "abcdefgh", 3, "abc"},
		{"arabic truncated by runes", "مرحبا بالعالم", 5, "مرحبا"},
		{"empty", "", 5, ""},
		{"zero limit", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Excerpt(tt.content, tt.maxRunes)

			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), max(tt.maxRunes, 0))
			assert.Equal(t, got, Excerpt(got, tt.maxRunes), "idempotent")
			assert.True(t, strings.HasPrefix(tt.content, got))
		})
	}
}

func TestExcerpt_LengthBounded(t *testing.T) {
	for _, n := range []int{1, 10, 499, 500, 501, 5000} {
		content := strings.Repeat("ع", n)
		got := Excerpt(content, DefaultExcerptRunes)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), DefaultExcerptRunes)
		assert.True(t, utf8.ValidString(got))
	}
}

func newTestAssembler(t *testing.T) (*ContextAssembler, *fakeLessons, *memHistory) {
	t.Helper()

	desc := "مادة الرياضيات للصف الأول"
	subjects := newFakeSubjects(&model.Subject{ID: 10, Name: "الرياضيات", Description: &desc, NumberOfDays: 30})
	lessons := newFakeLessons(
		&model.Lesson{ID: 3, SubjectID: 10, Title: "الطرح", Content: "الطرح هو", DayNumber: 2, Order: 1},
		&model.Lesson{ID: 1, SubjectID: 10, Title: "الجمع", Content: "الجمع هو", DayNumber: 1, Order: 1},
		&model.Lesson{ID: 2, SubjectID: 10, Title: "الأعداد", Content: "الأعداد هي", DayNumber: 1, Order: 2},
	)
	history := &memHistory{}

	return NewContextAssembler(subjects, lessons, history, DefaultExcerptRunes), lessons, history
}

func TestAssemble_Structure(t *testing.T) {
	a, _, history := newTestAssembler(t)
	ctx := context.Background()
	require.NoError(t, history.Append(ctx, &model.ChatTurn{RequestID: uuid.New(), StudentID: 1, SubjectID: 10, Question: "q1", Answer: "a1"}))
	require.NoError(t, history.Append(ctx, &model.ChatTurn{RequestID: uuid.New(), StudentID: 2, SubjectID: 10, Question: "other", Answer: "other"}))

	conv, err := a.Assemble(ctx, 1, 10, "q2")
	require.NoError(t, err)

	assert.Equal(t, []llm.Turn{
		{Role: llm.RoleUser, Text: "q1"},
		{Role: llm.RoleModel, Text: "a1"},
		{Role: llm.RoleUser, Text: "q2"},
	}, conv.Turns)

	instr := conv.SystemInstruction
	assert.Contains(t, instr, `مادة "الرياضيات"`)
	assert.Contains(t, instr, "\n\nوصف المادة: مادة الرياضيات للصف الأول\n\nالمنهج الدراسي:\n")
	assert.Contains(t, instr, "- الجمع: الجمع هو\n- الأعداد: الأعداد هي\n- الطرح: الطرح هو")
	assert.NotContains(t, instr, noLessonsPlaceholder)
}

func TestAssemble_Deterministic(t *testing.T) {
	a, _, history := newTestAssembler(t)
	ctx := context.Background()
	require.NoError(t, history.Append(ctx, &model.ChatTurn{RequestID: uuid.New(), StudentID: 1, SubjectID: 10, Question: "q1", Answer: "a1"}))

	first, err := a.Assemble(ctx, 1, 10, "q2")
	require.NoError(t, err)
	second, err := a.Assemble(ctx, 1, 10, "q2")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssemble_NoLessons(t *testing.T) {
	subjects := newFakeSubjects(&model.Subject{ID: 5, Name: "العلوم", NumberOfDays: 30})
	a := NewContextAssembler(subjects, newFakeLessons(), &memHistory{}, 0)

	conv, err := a.Assemble(context.Background(), 1, 5, "q")
	require.NoError(t, err)

	assert.Contains(t, conv.SystemInstruction, "المنهج الدراسي:\n"+noLessonsPlaceholder)
	assert.NotContains(t, conv.SystemInstruction, "وصف المادة")
	assert.True(t, strings.HasPrefix(conv.SystemInstruction, "أنت مساعد تعليمي متخصص في مادة \"العلوم\".\n\n\n\nالمنهج الدراسي:\n"),
		"empty description line is kept between header and curriculum")
	assert.Equal(t, DefaultExcerptRunes, a.excerptRunes)
}

func TestAssemble_SubjectNotFound(t *testing.T) {
	a, _, _ := newTestAssembler(t)

	_, err := a.Assemble(context.Background(), 1, 404, "q")

	assert.ErrorIs(t, err, ErrNotFound)
}
