package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ghost-story/pkg/errors"
)

func TestGenerationResult_SuccessCarriesOnlyStory(t *testing.T) {
	data, err := json.Marshal(Success("The door creaked."))
	require.NoError(t, err)
	assert.JSONEq(t, `{"story":"The door creaked."}`, string(data))
}

func TestGenerationResult_FailureCarriesNoStory(t *testing.T) {
	res := Failure(apperrors.New(apperrors.CodeAPI, "Failed to generate story. Please try again."))
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"error":"Failed to generate story. Please try again.","code":"API_ERROR","retryable":true}`,
		string(data))
	assert.False(t, res.IsSuccess())
	assert.Equal(t, "API_ERROR", res.ResultLabel())
}

func TestGenerationResult_Unmarshal(t *testing.T) {
	var ok GenerationResult
	require.NoError(t, json.Unmarshal([]byte(`{"story":"boo"}`), &ok))
	assert.True(t, ok.IsSuccess())
	assert.Equal(t, "boo", ok.Story)

	var failed GenerationResult
	require.NoError(t, json.Unmarshal([]byte(`{"error":"slow","code":"TIMEOUT","retryable":true}`), &failed))
	assert.Equal(t, apperrors.CodeTimeout, failed.Code)
	assert.True(t, failed.Retryable)

	var pinned GenerationResult
	require.NoError(t, json.Unmarshal([]byte(`{"error":"down","code":"API_ERROR","retryable":false}`), &pinned))
	assert.Equal(t, apperrors.CodeAPI, pinned.Code)
	assert.False(t, pinned.Retryable)

	var odd GenerationResult
	require.NoError(t, json.Unmarshal([]byte(`{"error":"x","code":"TEAPOT"}`), &odd))
	assert.Equal(t, apperrors.CodeUnknown, odd.Code)

	var both GenerationResult
	assert.Error(t, json.Unmarshal([]byte(`{"story":"a","error":"b"}`), &both))

	var neither GenerationResult
	assert.Error(t, json.Unmarshal([]byte(`{}`), &neither))
}

func TestPromptLength_CountsCharacters(t *testing.T) {
	assert.Equal(t, 3, PromptLength("abc"))
	assert.Equal(t, 3, PromptLength("幽灵屋"))
	assert.Equal(t, 0, PromptLength(""))
}
