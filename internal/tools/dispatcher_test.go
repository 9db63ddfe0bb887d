package tools

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-agent/internal/types"
)

// fakeChannel records delivery attempts so tests can assert on side effects.
type fakeChannel struct {
	mu         sync.Mutex
	configured bool
	sendErr    error
	panics     bool
	calls      []types.EmailMessage
}

func (f *fakeChannel) Configured() bool {
	return f.configured
}

func (f *fakeChannel) Send(_ context.Context, message types.EmailMessage) (*types.DeliveryReceipt, error) {
	if f.panics {
		panic("smtp client exploded")
	}
	f.mu.Lock()
	f.calls = append(f.calls, message)
	f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &types.DeliveryReceipt{
		ID:         "receipt-1",
		Recipient:  message.Recipient,
		Subject:    message.Subject,
		AcceptedAt: "2026-01-01T00:00:00Z",
	}, nil
}

func (f *fakeChannel) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func validEmailArgs() map[string]any {
	return map[string]any{
		"recipient": "a@b.com",
		"subject":   "Hi",
		"body":      "x",
	}
}

func TestExecute_GetSkills(t *testing.T) {
	dispatcher := NewDispatcher(searchFixture(), nil, nil)

	result := dispatcher.Execute(context.Background(), ToolGetSkills, map[string]any{})

	require.True(t, result.Success)
	assert.Equal(t, ToolGetSkills, result.Tool)
	assert.Equal(t, []string{"Go", "Rust"}, result.Data)
	assert.Equal(t, "2 skills", result.Summary)
	assert.Empty(t, result.Error)
	assert.Empty(t, result.Kind)

	_, err := time.Parse(time.RFC3339, result.Timestamp)
	assert.NoError(t, err)
}

func TestExecute_ReadersSucceedOnEmptyRecord(t *testing.T) {
	dispatcher := NewDispatcher(types.EmptyCVRecord(), nil, nil)

	for _, name := range []string{ToolGetPersonalInfo, ToolGetWorkExperience, ToolGetEducation, ToolGetSkills} {
		result := dispatcher.Execute(context.Background(), name, nil)
		require.True(t, result.Success, "tool %s", name)
		assert.NotNil(t, result.Data, "tool %s", name)
		assert.Empty(t, result.Error, "tool %s", name)
	}

	experience := dispatcher.Execute(context.Background(), ToolGetWorkExperience, nil)
	assert.Equal(t, []types.ExperienceEntry{}, experience.Data)
}

func TestExecute_NilRecordIsNormalized(t *testing.T) {
	dispatcher := NewDispatcher(nil, nil, nil)

	result := dispatcher.Execute(context.Background(), ToolGetPersonalInfo, nil)

	require.True(t, result.Success)
	assert.Equal(t, map[string]string{}, result.Data)
}

func TestExecute_PartialRecordIsNormalized(t *testing.T) {
	dispatcher := NewDispatcher(&types.CVRecord{RawText: "just text"}, nil, nil)

	skills := dispatcher.Execute(context.Background(), ToolGetSkills, nil)
	require.True(t, skills.Success)
	assert.Equal(t, []string{}, skills.Data)
}

func TestExecute_UnknownTool(t *testing.T) {
	dispatcher := NewDispatcher(searchFixture(), nil, nil)

	result := dispatcher.Execute(context.Background(), "drop_database", nil)

	require.False(t, result.Success)
	assert.Equal(t, KindUnknownTool, result.Kind)
	assert.Equal(t, "drop_database", result.Tool)
	assert.Contains(t, result.Error, "drop_database")
	assert.Nil(t, result.Data)
}

func TestExecute_ExtraArgumentsIgnored(t *testing.T) {
	dispatcher := NewDispatcher(searchFixture(), nil, nil)

	result := dispatcher.Execute(context.Background(), ToolGetSkills, map[string]any{"verbose": true})

	assert.True(t, result.Success)
}

func TestExecute_SearchMissingQuery(t *testing.T) {
	dispatcher := NewDispatcher(searchFixture(), nil, nil)

	result := dispatcher.Execute(context.Background(), ToolSearchCV, nil)

	require.False(t, result.Success)
	assert.Equal(t, KindInvalidArguments, result.Kind)
	assert.Contains(t, result.Error, "query")
}

func TestExecute_SearchBlankQuery(t *testing.T) {
	dispatcher := NewDispatcher(searchFixture(), nil, nil)

	result := dispatcher.Execute(context.Background(), ToolSearchCV, map[string]any{"query": "   "})

	require.False(t, result.Success)
	assert.Equal(t, KindInvalidArguments, result.Kind)
}

func TestExecute_SearchWrongQueryType(t *testing.T) {
	dispatcher := NewDispatcher(searchFixture(), nil, nil)

	result := dispatcher.Execute(context.Background(), ToolSearchCV, map[string]any{"query": 42})

	require.False(t, result.Success)
	assert.Equal(t, KindInvalidArguments, result.Kind)
}

func TestExecute_SearchMatchesSkillsAndRawText(t *testing.T) {
	dispatcher := NewDispatcher(searchFixture(), nil, nil)

	result := dispatcher.Execute(context.Background(), ToolSearchCV, map[string]any{"query": "rust"})

	require.True(t, result.Success)
	matches, ok := result.Data.([]types.SearchMatch)
	require.True(t, ok)
	require.Len(t, matches, 2)
	assert.Equal(t, SectionSkills, matches[0].Section)
	assert.Equal(t, SectionRawText, matches[1].Section)
	assert.Equal(t, `2 matches for "rust"`, result.Summary)
}

func TestExecute_SearchNoMatchesIsSuccess(t *testing.T) {
	dispatcher := NewDispatcher(searchFixture(), nil, nil)

	result := dispatcher.Execute(context.Background(), ToolSearchCV, map[string]any{"query": "cobol"})

	require.True(t, result.Success)
	matches, ok := result.Data.([]types.SearchMatch)
	require.True(t, ok)
	assert.Empty(t, matches)
	assert.Equal(t, `0 matches for "cobol"`, result.Summary)
}

func TestExecute_SendEmail_MissingFieldsNoDelivery(t *testing.T) {
	channel := &fakeChannel{configured: true}
	dispatcher := NewDispatcher(searchFixture(), channel, nil)

	result := dispatcher.Execute(context.Background(), ToolSendEmail, map[string]any{"recipient": "a@b.com"})

	require.False(t, result.Success)
	assert.Equal(t, KindInvalidArguments, result.Kind)
	assert.Zero(t, channel.sendCount(), "no delivery may be attempted on invalid arguments")
}

func TestExecute_SendEmail_InvalidRecipient(t *testing.T) {
	channel := &fakeChannel{configured: true}
	dispatcher := NewDispatcher(searchFixture(), channel, nil)

	result := dispatcher.Execute(context.Background(), ToolSendEmail, map[string]any{
		"recipient": "not-an-email",
		"subject":   "Hi",
		"body":      "x",
	})

	require.False(t, result.Success)
	assert.Equal(t, KindInvalidArguments, result.Kind)
	assert.Contains(t, result.Error, "recipient")
	assert.Zero(t, channel.sendCount())
}

func TestExecute_SendEmail_NilChannel(t *testing.T) {
	dispatcher := NewDispatcher(searchFixture(), nil, nil)

	result := dispatcher.Execute(context.Background(), ToolSendEmail, validEmailArgs())

	require.False(t, result.Success)
	assert.Equal(t, KindChannelUnavailable, result.Kind)
}

func TestExecute_SendEmail_UnconfiguredChannel(t *testing.T) {
	channel := &fakeChannel{configured: false}
	dispatcher := NewDispatcher(searchFixture(), channel, nil)

	result := dispatcher.Execute(context.Background(), ToolSendEmail, validEmailArgs())

	require.False(t, result.Success)
	assert.Equal(t, KindChannelUnavailable, result.Kind)
	assert.Zero(t, channel.sendCount())
}

func TestExecute_SendEmail_DeliveryFailure(t *testing.T) {
	channel := &fakeChannel{configured: true, sendErr: errors.New("smtp: connection refused")}
	dispatcher := NewDispatcher(searchFixture(), channel, nil)

	result := dispatcher.Execute(context.Background(), ToolSendEmail, validEmailArgs())

	require.False(t, result.Success)
	assert.Equal(t, KindDeliveryFailed, result.Kind)
	assert.Contains(t, result.Error, "connection refused")
	assert.Equal(t, 1, channel.sendCount())
}

func TestExecute_SendEmail_Success(t *testing.T) {
	channel := &fakeChannel{configured: true}
	dispatcher := NewDispatcher(searchFixture(), channel, nil)

	result := dispatcher.Execute(context.Background(), ToolSendEmail, map[string]any{
		"recipient": "  a@b.com  ",
		"subject":   "Hi",
		"body":      "x",
	})

	require.True(t, result.Success)
	receipt, ok := result.Data.(*types.DeliveryReceipt)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", receipt.Recipient)
	assert.Equal(t, "email sent to a@b.com", result.Summary)

	require.Equal(t, 1, channel.sendCount())
	assert.Equal(t, "a@b.com", channel.calls[0].Recipient)
}

func TestExecute_PanicBecomesInternalError(t *testing.T) {
	channel := &fakeChannel{configured: true, panics: true}
	dispatcher := NewDispatcher(searchFixture(), channel, nil)

	var result *Result
	require.NotPanics(t, func() {
		result = dispatcher.Execute(context.Background(), ToolSendEmail, validEmailArgs())
	})

	require.False(t, result.Success)
	assert.Equal(t, KindInternal, result.Kind)
	assert.Contains(t, result.Error, "internal error")
}

func TestExecute_EnvelopeInvariants(t *testing.T) {
	channel := &fakeChannel{configured: true}
	dispatcher := NewDispatcher(searchFixture(), channel, nil)

	calls := []struct {
		name string
		args map[string]any
	}{
		{ToolGetPersonalInfo, nil},
		{ToolGetWorkExperience, nil},
		{ToolGetEducation, nil},
		{ToolGetSkills, nil},
		{ToolSearchCV, map[string]any{"query": "go"}},
		{ToolSendEmail, validEmailArgs()},
		{"nonexistent", nil},
		{ToolSearchCV, map[string]any{"query": ""}},
	}

	for _, call := range calls {
		result := dispatcher.Execute(context.Background(), call.name, call.args)
		require.NotNil(t, result)
		assert.Equal(t, call.name, result.Tool)
		assert.NotEmpty(t, result.Timestamp)
		if result.Success {
			assert.NotNil(t, result.Data, "tool %s", call.name)
			assert.Empty(t, result.Error, "tool %s", call.name)
			assert.Empty(t, result.Kind, "tool %s", call.name)
		} else {
			assert.Nil(t, result.Data, "tool %s", call.name)
			assert.NotEmpty(t, result.Error, "tool %s", call.name)
			assert.NotEmpty(t, result.Kind, "tool %s", call.name)
		}
	}
}

func TestExecute_ConcurrentReads(t *testing.T) {
	dispatcher := NewDispatcher(searchFixture(), nil, nil)

	const workers = 16
	results := make(chan *Result, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- dispatcher.Execute(context.Background(), ToolGetSkills, nil)
			results <- dispatcher.Execute(context.Background(), ToolSearchCV, map[string]any{"query": "go"})
		}()
	}
	wg.Wait()
	close(results)

	for result := range results {
		assert.True(t, result.Success)
	}
}

func TestChannelConfigured(t *testing.T) {
	assert.False(t, NewDispatcher(nil, nil, nil).ChannelConfigured())
	assert.False(t, NewDispatcher(nil, &fakeChannel{}, nil).ChannelConfigured())
	assert.True(t, NewDispatcher(nil, &fakeChannel{configured: true}, nil).ChannelConfigured())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknownTool, KindOf(&UnknownToolError{Name: "x"}))
	assert.Equal(t, KindInvalidArguments, KindOf(&InvalidArgumentsError{Tool: "x"}))
	assert.Equal(t, KindChannelUnavailable, KindOf(&ChannelUnavailableError{}))
	assert.Equal(t, KindDeliveryFailed, KindOf(&DeliveryFailedError{}))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
