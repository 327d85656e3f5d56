package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrompter struct {
	selectIdx  int
	selectErr  error
	input      string
	selectSeen []string
	inputCalls int
}

func (f *fakePrompter) SelectFromList(_ string, items []string) (int, string, error) {
	f.selectSeen = items
	if f.selectErr != nil {
		return -1, "", f.selectErr
	}
	return f.selectIdx, items[f.selectIdx], nil
}

func (f *fakePrompter) InputText(_ string, validate func(string) error) (string, error) {
	f.inputCalls++
	if err := validate(f.input); err != nil {
		return "", err
	}
	return f.input, nil
}

func (f *fakePrompter) Confirm(string) (bool, error) { return true, nil }

func TestPromptJobID_FromRecent(t *testing.T) {
	p := &fakePrompter{selectIdx: 1}
	id, err := PromptJobID(p, []string{"12", "7"})
	require.NoError(t, err)
	assert.Equal(t, "7", id)
	assert.Equal(t, []string{"12", "7", enterJobIDOption}, p.selectSeen)
	assert.Zero(t, p.inputCalls)
}

func TestPromptJobID_EnterAnother(t *testing.T) {
	p := &fakePrompter{selectIdx: 1, input: "99"}
	id, err := PromptJobID(p, []string{"12"})
	require.NoError(t, err)
	assert.Equal(t, "99", id)
	assert.Equal(t, 1, p.inputCalls)
}

func TestPromptJobID_NoRecent(t *testing.T) {
	p := &fakePrompter{input: "5"}
	id, err := PromptJobID(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "5", id)
	assert.Nil(t, p.selectSeen)
}

func TestPromptJobID_Cancelled(t *testing.T) {
	p := &fakePrompter{selectErr: ErrCancelled}
	_, err := PromptJobID(p, []string{"1"})
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestValidateJobID(t *testing.T) {
	assert.NoError(t, ValidateJobID("123"))
	assert.NoError(t, ValidateJobID(" abc-1 "))
	assert.Error(t, ValidateJobID(""))
	assert.Error(t, ValidateJobID("a b"))
	assert.Error(t, ValidateJobID("a/b"))
}
