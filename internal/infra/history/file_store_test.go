package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/homeguard/internal/core/maintenance"
)

func writeHistoryFile(t *testing.T, dir, propertyID, content string) {
	t.Helper()
	path := filepath.Join(dir, propertyID+"_maintenance_history.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestHistoryParsesPipeFormat はパイプ区切り形式の読み込みを確認します
func TestHistoryParsesPipeFormat(t *testing.T) {
	dir := t.TempDir()
	writeHistoryFile(t, dir, "prop-1", `# Maintenance History for prop-1
# Format: asset_id|asset_name|asset_type|date|event_type

boiler-1|Boiler|heating|2024-01-15|routine
boiler-1|Boiler|heating|2024-04-15|repair
filter-1|Air filter|climate_control|2024-03-01|routine
`)

	store := NewFileStore(dir, nil)
	events, err := store.History(context.Background(), "prop-1")
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, "boiler-1", events[0].AssetID)
	assert.Equal(t, "Boiler", events[0].AssetName)
	assert.Equal(t, "heating", events[0].AssetType)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, maintenance.EventRoutine, events[0].EventType)
	assert.Equal(t, maintenance.EventRepair, events[1].EventType)
}

// TestHistoryMissingFile は履歴ファイルがない場合に空が返ることを確認します
// 履歴なしは正常な状態でありエラーではない
func TestHistoryMissingFile(t *testing.T) {
	store := NewFileStore(t.TempDir(), nil)

	events, err := store.History(context.Background(), "unknown-prop")

	require.NoError(t, err)
	assert.Empty(t, events)
}

// TestHistorySkipsMalformedLines は壊れた行が読み飛ばされ、
// 他の行の読み込みが継続することを確認します
func TestHistorySkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	writeHistoryFile(t, dir, "prop-1", `boiler-1|Boiler|heating|2024-01-15|routine
this line is not pipe separated
boiler-1|Boiler|heating|not-a-date|routine
boiler-1|Boiler|heating|2024-02-15|unknown_type
boiler-1|Boiler|heating|2024-04-15|routine
`)

	store := NewFileStore(dir, nil)
	events, err := store.History(context.Background(), "prop-1")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), events[1].Date)
}

// TestAppendEventRoundTrip は追記したイベントが読み戻せることを確認します
func TestAppendEventRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	store := NewFileStore(dir, nil)
	ctx := context.Background()

	event := &maintenance.MaintenanceEvent{
		AssetID:   "dryer-1",
		AssetName: "Tumble dryer",
		AssetType: "laundry_dry",
		Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EventType: maintenance.EventRoutine,
	}
	require.NoError(t, store.AppendEvent(ctx, "prop-2", event))

	events, err := store.History(ctx, "prop-2")
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, event.AssetID, events[0].AssetID)
	assert.Equal(t, event.Date, events[0].Date)
	assert.Equal(t, event.EventType, events[0].EventType)

	// 新規ファイルにはヘッダコメントが付く
	data, err := os.ReadFile(filepath.Join(dir, "prop-2_maintenance_history.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Maintenance History for prop-2")
}
