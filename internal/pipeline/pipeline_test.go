package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lukas-hzb/geometa/internal/metafile"
	"github.com/lukas-hzb/geometa/internal/model"
	"github.com/lukas-hzb/geometa/internal/store"
)

func writeStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plonkit_data.json")
	require.NoError(t, metafile.Save(path, testGroups(), metafile.SaveOptions{}))
	return path
}

func TestPipeline_RunWithLedger(t *testing.T) {
	path := writeStore(t)
	st := &mockStore{}
	run := &model.Run{ID: "run-1", Status: model.RunStatusRunning}

	st.On("CreateRun", mock.Anything, store.RunInput{DataPath: path, Passes: model.AllPasses()}).Return(run, nil)
	st.On("RecordChanges", mock.Anything, "run-1", mock.AnythingOfType("[]model.Change")).Return(nil)
	st.On("CompleteRun", mock.Anything, "run-1", mock.AnythingOfType("*model.RunResult")).Return(nil)

	out, err := New(st).Run(context.Background(), RunInput{DataPath: path, Backup: true})
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, out.Run.Status)
	assert.Equal(t, 3, out.Result.Summary.Metas)

	saved, err := metafile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Dual Script Alphabet", saved[0].Metas[0].Title)
	assert.Equal(t, out.Groups, saved)

	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
	st.AssertExpectations(t)
}

func TestPipeline_DryRunDoesNotWrite(t *testing.T) {
	path := writeStore(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := New(nil).Run(context.Background(), RunInput{DataPath: path, DryRun: true})
	require.NoError(t, err)
	assert.Nil(t, out.Run)
	assert.NotEmpty(t, out.Result.Changes)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPipeline_LoadFailureMarksRunFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	st := &mockStore{}
	st.On("CreateRun", mock.Anything, mock.Anything).Return(&model.Run{ID: "run-2"}, nil)
	st.On("FailRun", mock.Anything, "run-2", mock.AnythingOfType("string")).Return(nil)

	out, err := New(st).Run(context.Background(), RunInput{DataPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metafile: open")
	assert.Equal(t, model.RunStatusFailed, out.Run.Status)
	st.AssertExpectations(t)
	st.AssertNotCalled(t, "CompleteRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_CreateRunError(t *testing.T) {
	st := &mockStore{}
	st.On("CreateRun", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := New(st).Run(context.Background(), RunInput{DataPath: "x.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: create run")
}

func TestPipeline_InvalidPassIsRejectedBeforeLedger(t *testing.T) {
	st := &mockStore{}
	_, err := New(st).Run(context.Background(), RunInput{DataPath: "x.json", Passes: []model.Pass{"bogus"}})
	require.Error(t, err)
	st.AssertNotCalled(t, "CreateRun", mock.Anything, mock.Anything)
}

func TestPipeline_LedgerFailureLeavesFileUntouched(t *testing.T) {
	path := writeStore(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	st := &mockStore{}
	st.On("CreateRun", mock.Anything, mock.Anything).Return(&model.Run{ID: "run-3"}, nil)
	st.On("RecordChanges", mock.Anything, "run-3", mock.AnythingOfType("[]model.Change")).Return(errors.New("disk full"))
	st.On("FailRun", mock.Anything, "run-3", mock.AnythingOfType("string")).Return(nil)

	out, err := New(st).Run(context.Background(), RunInput{DataPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: record changes")
	assert.Equal(t, model.RunStatusFailed, out.Run.Status)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	st.AssertExpectations(t)
	st.AssertNotCalled(t, "CompleteRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_DryRunPreviewsGroups(t *testing.T) {
	path := writeStore(t)

	out, err := New(nil).Run(context.Background(), RunInput{DataPath: path, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "Dual Script Alphabet", out.Groups[0].Metas[0].Title)

	saved, err := metafile.Load(path)
	require.NoError(t, err)
	assert.Empty(t, saved[0].Metas[0].Title)
}
