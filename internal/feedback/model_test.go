package feedback_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/teampulse/internal/feedback"
)

func validNewParams() feedback.NewParams {
	return feedback.NewParams{
		AuthorID:    uuid.New(),
		RecipientID: uuid.New(),
		Type:        feedback.TypePositive,
		Category:    feedback.CategoryTeamwork,
		Content:     "Great collaboration on the release last week.",
		TeamID:      uuid.New(),
	}
}

func TestNew_Success(t *testing.T) {
	t.Parallel()

	f, err := feedback.New(validNewParams())
	require.NoError(t, err)

	assert.Equal(t, feedback.StatusPending, f.Status())
	assert.Nil(t, f.Review())
	assert.Equal(t, 1, f.Version)
}

func TestNew_TrimsContent(t *testing.T) {
	t.Parallel()

	p := validNewParams()
	p.Content = "   Great collaboration on the release last week.   "

	f, err := feedback.New(p)
	require.NoError(t, err)

	assert.Equal(t, "Great collaboration on the release last week.", f.Content)
}

func TestNew_SelfFeedback(t *testing.T) {
	t.Parallel()

	p := validNewParams()
	p.RecipientID = p.AuthorID

	_, err := feedback.New(p)
	assert.ErrorIs(t, err, feedback.ErrSelfFeedback)
}

func TestNew_ContentBounds(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"blank":                "",
		"whitespace only":      "   \t\n  ",
		"too short":            strings.Repeat("a", 19),
		"too short after trim": "  " + strings.Repeat("a", 19) + "  ",
		"too long":             strings.Repeat("a", 2001),
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := validNewParams()
			p.Content = content

			_, err := feedback.New(p)
			assert.ErrorIs(t, err, feedback.ErrContentLength)
		})
	}
}

func TestNew_ContentAtBounds(t *testing.T) {
	t.Parallel()

	for _, n := range []int{20, 2000} {
		p := validNewParams()
		p.Content = strings.Repeat("a", n)

		f, err := feedback.New(p)
		require.NoError(t, err)
		assert.Len(t, f.Content, n)
	}
}

// Bounds count characters, not bytes: 19 two-byte runes must fail the minimum
// and 20 must pass, even though both exceed 20 bytes.
func TestNew_ContentBoundsAreCharacters(t *testing.T) {
	t.Parallel()

	p := validNewParams()
	p.Content = strings.Repeat("é", 19)
	_, err := feedback.New(p)
	assert.ErrorIs(t, err, feedback.ErrContentLength)

	p.Content = strings.Repeat("é", 20)
	_, err = feedback.New(p)
	assert.NoError(t, err)

	p.Content = strings.Repeat("é", 2000)
	_, err = feedback.New(p)
	assert.NoError(t, err)

	p.Content = strings.Repeat("é", 2001)
	_, err = feedback.New(p)
	assert.ErrorIs(t, err, feedback.ErrContentLength)
}

func TestApprove_Success(t *testing.T) {
	t.Parallel()

	f, err := feedback.New(validNewParams())
	require.NoError(t, err)

	reviewer := uuid.New()
	notes := "Looks good!"

	before := time.Now().UTC()
	require.NoError(t, f.Approve(reviewer, &notes))

	assert.Equal(t, feedback.StatusApproved, f.Status())
	review := f.Review()
	require.NotNil(t, review)
	assert.Equal(t, reviewer, review.ReviewerID)
	require.NotNil(t, review.Notes)
	assert.Equal(t, "Looks good!", *review.Notes)
	assert.False(t, review.At.Before(before))
}

func TestApprove_WithoutNotes(t *testing.T) {
	t.Parallel()

	f, err := feedback.New(validNewParams())
	require.NoError(t, err)

	require.NoError(t, f.Approve(uuid.New(), nil))

	require.NotNil(t, f.Review())
	assert.Nil(t, f.Review().Notes)
}

func TestApprove_Twice(t *testing.T) {
	t.Parallel()

	f, err := feedback.New(validNewParams())
	require.NoError(t, err)

	require.NoError(t, f.Approve(uuid.New(), nil))
	assert.ErrorIs(t, f.Approve(uuid.New(), nil), feedback.ErrNotPending)
}

func TestApprove_AfterReject(t *testing.T) {
	t.Parallel()

	f, err := feedback.New(validNewParams())
	require.NoError(t, err)

	require.NoError(t, f.Reject(uuid.New(), "Too vague to act on, please be specific."))
	assert.ErrorIs(t, f.Approve(uuid.New(), nil), feedback.ErrNotPending)
}

func TestReject_Success(t *testing.T) {
	t.Parallel()

	f, err := feedback.New(validNewParams())
	require.NoError(t, err)

	reviewer := uuid.New()
	require.NoError(t, f.Reject(reviewer, "Too vague to act on, please be specific."))

	assert.Equal(t, feedback.StatusRejected, f.Status())
	review := f.Review()
	require.NotNil(t, review)
	assert.Equal(t, reviewer, review.ReviewerID)
	require.NotNil(t, review.Notes)
}

func TestReject_BlankNotes(t *testing.T) {
	t.Parallel()

	for _, notes := range []string{"", "   ", "\t\n"} {
		f, err := feedback.New(validNewParams())
		require.NoError(t, err)

		assert.ErrorIs(t, f.Reject(uuid.New(), notes), feedback.ErrRejectionNotesRequired)
		assert.Equal(t, feedback.StatusPending, f.Status())
	}
}

// Blank notes fail regardless of the current state, even on an already
// terminal item.
func TestReject_BlankNotesOnTerminal(t *testing.T) {
	t.Parallel()

	f, err := feedback.New(validNewParams())
	require.NoError(t, err)
	require.NoError(t, f.Approve(uuid.New(), nil))

	assert.ErrorIs(t, f.Reject(uuid.New(), "  "), feedback.ErrRejectionNotesRequired)
}

func TestReject_Twice(t *testing.T) {
	t.Parallel()

	f, err := feedback.New(validNewParams())
	require.NoError(t, err)

	require.NoError(t, f.Reject(uuid.New(), "Too vague to act on, please be specific."))
	assert.ErrorIs(t, f.Reject(uuid.New(), "Still not actionable feedback."), feedback.ErrNotPending)
}

func TestReconstitute_RestoresState(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	reviewer := uuid.New()
	at := time.Now().UTC().Add(-time.Hour)
	notes := "ok"

	f := feedback.Reconstitute(feedback.ReconstituteParams{
		ID:          id,
		AuthorID:    uuid.New(),
		RecipientID: uuid.New(),
		Type:        feedback.TypeCritical,
		Category:    feedback.CategoryCommunication,
		Content:     strings.Repeat("a", 30),
		Status:      feedback.StatusApproved,
		Review:      &feedback.Review{ReviewerID: reviewer, Notes: &notes, At: at},
		TeamID:      uuid.New(),
		CreatedAt:   at.Add(-time.Hour),
		Version:     3,
	})

	assert.Equal(t, id, f.ID)
	assert.Equal(t, feedback.StatusApproved, f.Status())
	require.NotNil(t, f.Review())
	assert.Equal(t, reviewer, f.Review().ReviewerID)
	assert.Equal(t, 3, f.Version)

	assert.ErrorIs(t, f.Approve(uuid.New(), nil), feedback.ErrNotPending)
}
