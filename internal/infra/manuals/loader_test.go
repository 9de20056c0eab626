package manuals

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPropertyIDFromFilename はファイル名とプロパティIDの対応を確認します
func TestPropertyIDFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
		ok       bool
	}{
		{name: "通常のマニュアル", filename: "prop-1_manual.txt", expected: "prop-1", ok: true},
		{name: "接尾辞なし", filename: "prop-1.txt", ok: false},
		{name: "接尾辞のみ", filename: "_manual.txt", ok: false},
		{name: "IDにアンダースコアを含む", filename: "building_a_unit_3_manual.txt", expected: "building_a_unit_3", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := PropertyIDFromFilename(tt.filename)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, id)
			}
		})
	}
}

// TestLoad はマニュアルがドキュメントとして読み込まれることを確認します
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prop-1_manual.txt"), []byte("Boiler instructions."), 0o644))

	loader := NewLoader(dir)
	doc, err := loader.Load("prop-1")
	require.NoError(t, err)

	assert.Equal(t, "prop-1", doc.PropertyID)
	assert.Equal(t, "Boiler instructions.", doc.Text)
	assert.False(t, doc.LoadedAt.IsZero())
}

// TestLoadMissingManual はマニュアルがないプロパティで ErrManualNotFound が
// 返ることを確認します。新規プロパティの正常系として呼び出し側が識別できること
func TestLoadMissingManual(t *testing.T) {
	loader := NewLoader(t.TempDir())

	doc, err := loader.Load("prop-without-manual")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrManualNotFound)
	assert.Nil(t, doc)
}

// TestLoadAll はディレクトリ内のマニュアルだけが読み込まれることを確認します
func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prop-1_manual.txt"), []byte("Boiler instructions."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prop-2_manual.txt"), []byte("Thermostat instructions."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a manual"), 0o644))

	loader := NewLoader(dir)
	docs, err := loader.LoadAll()
	require.NoError(t, err)

	assert.Len(t, docs, 2)
	assert.Equal(t, "Boiler instructions.", docs["prop-1"].Text)
	assert.Equal(t, "Thermostat instructions.", docs["prop-2"].Text)
}

// TestLoadAllMissingDir はディレクトリがない場合に空マップが返ることを確認します
func TestLoadAllMissingDir(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))

	docs, err := loader.LoadAll()

	require.NoError(t, err)
	assert.Empty(t, docs)
}
