package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/edu_platform/internal/llm"
	"github.com/Freeeeeet/edu_platform/internal/model"
)

// DefaultExcerptRunes длина отрывка урока в контексте чата
const DefaultExcerptRunes = 500

const noLessonsPlaceholder = "لا توجد دروس متاحة حالياً"

type SubjectStore interface {
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
}

// LessonStore отдаёт уроки предмета в порядке (day_number, order)
type LessonStore interface {
	GetBySubject(ctx context.Context, subjectID int64) ([]*model.Lesson, error)
}

// HistoryStore append-only история чата
type HistoryStore interface {
	Append(ctx context.Context, turn *model.ChatTurn) error
	List(ctx context.Context, studentID, subjectID int64) ([]*model.ChatTurn, error)
	ListRecent(ctx context.Context, studentID, subjectID int64, limit int) ([]*model.ChatTurn, error)
}

// ContextAssembler builds the provider conversation from subject, lessons and history.
// It does not check access; callers gate it with AccessChecker.
type ContextAssembler struct {
	subjects     SubjectStore
	lessons      LessonStore
	history      HistoryStore
	excerptRunes int
}

func NewContextAssembler(subjects SubjectStore, lessons LessonStore, history HistoryStore, excerptRunes int) *ContextAssembler {
	if excerptRunes <= 0 {
		excerptRunes = DefaultExcerptRunes
	}
	return &ContextAssembler{
		subjects:     subjects,
		lessons:      lessons,
		history:      history,
		excerptRunes: excerptRunes,
	}
}

// Assemble returns [system instruction] + [prior turns, oldest first] + [question].
// The same stored data always yields the same conversation.
func (a *ContextAssembler) Assemble(ctx context.Context, studentID, subjectID int64, question string) (*llm.Conversation, error) {
	subject, err := a.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return nil, storageErr("get subject", err)
	}
	if subject == nil {
		return nil, notFound("subject", subjectID)
	}

	lessons, err := a.lessons.GetBySubject(ctx, subjectID)
	if err != nil {
		return nil, storageErr("get lessons", err)
	}

	turns, err := a.history.List(ctx, studentID, subjectID)
	if err != nil {
		return nil, storageErr("list chat history", err)
	}

	exchanges := make([]llm.Exchange, 0, len(turns))
	for _, t := range turns {
		exchanges = append(exchanges, llm.Exchange{Question: t.Question, Answer: t.Answer})
	}

	conversation := llm.ExpandHistory(exchanges)
	conversation = append(conversation, llm.Turn{Role: llm.RoleUser, Text: question})

	return &llm.Conversation{
		SystemInstruction: a.systemInstruction(subject, lessons),
		Turns:             conversation,
	}, nil
}

func (a *ContextAssembler) systemInstruction(subject *model.Subject, lessons []*model.Lesson) string {
	var b strings.Builder

	fmt.Fprintf(&b, "أنت مساعد تعليمي متخصص في مادة \"%s\".\n\n", subject.Name)
	// Строка описания остаётся пустой, если описания нет
	if subject.Description != nil && *subject.Description != "" {
		fmt.Fprintf(&b, "وصف المادة: %s", *subject.Description)
	}
	b.WriteString("\n\n")

	b.WriteString("المنهج الدراسي:\n")
	if len(lessons) == 0 {
		b.WriteString(noLessonsPlaceholder)
	}
	for i, l := range lessons {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %s", l.Title, Excerpt(l.Content, a.excerptRunes))
	}

	b.WriteString("\n\nتعليمات مهمة:\n")
	fmt.Fprintf(&b, "1. يجب أن تجيب فقط على الأسئلة المتعلقة بمادة %s والمنهج المحدد أعلاه\n", subject.Name)
	fmt.Fprintf(&b, "2. إذا سألك الطالب عن مادة أخرى أو موضوع خارج المنهج، أخبره بلطف أنك متخصص فقط في %s\n", subject.Name)
	b.WriteString("3. استخدم المعلومات من الدروس المذكورة أعلاه للإجابة\n")
	b.WriteString("4. قدم إجابات واضحة ومفيدة باللغة العربية\n")
	b.WriteString("5. إذا لم تكن متأكداً من الإجابة، اعترف بذلك واقترح مراجعة الدرس المناسب")

	return b.String()
}

// Excerpt returns at most maxRunes leading runes of content.
// Excerpt(Excerpt(s, n), n) == Excerpt(s, n).
func Excerpt(content string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(content) <= maxRunes {
		return content
	}

	n := 0
	for i := range content {
		if n == maxRunes {
			return content[:i]
		}
		n++
	}
	return content
}
