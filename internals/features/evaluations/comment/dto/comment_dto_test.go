package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentRequestBounds(t *testing.T) {
	// one trimmed character is a legal comment
	req := CreateCommentRequest{Text: "  A  "}
	req.Normalize()
	require.NoError(t, req.Validate())
	assert.Equal(t, "A", req.Text)

	empty := CreateCommentRequest{Text: "   "}
	empty.Normalize()
	assert.Error(t, empty.Validate())

	tooLong := CreateCommentRequest{Text: strings.Repeat("x", 1001)}
	tooLong.Normalize()
	assert.Error(t, tooLong.Validate())

	maxed := CreateCommentRequest{Text: strings.Repeat("x", 1000)}
	maxed.Normalize()
	assert.NoError(t, maxed.Validate())
}

func TestUpdateCommentRequestBounds(t *testing.T) {
	req := UpdateCommentRequest{Text: "A"}
	req.Normalize()
	assert.NoError(t, req.Validate())

	empty := UpdateCommentRequest{Text: ""}
	empty.Normalize()
	assert.Error(t, empty.Validate())
}
