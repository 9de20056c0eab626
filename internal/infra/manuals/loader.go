package manuals

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinford/homeguard/internal/core/indexing"
)

// manualSuffix はマニュアルファイル名の接尾辞
// `<property_id>_manual.txt` という命名でプロパティに紐づく
const manualSuffix = "_manual.txt"

// ErrManualNotFound はプロパティに対応するマニュアルファイルが存在しないことを示す
// 新規プロパティでは正常な状態であり、呼び出し側はインデックスなしで続行してよい
var ErrManualNotFound = errors.New("manual file not found")

// Loader はプロパティごとのマニュアルtxtを読み込む
type Loader struct {
	dir string
}

// NewLoader は新しいLoaderを作成する
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load は1プロパティのマニュアルを読み込んで返す
// ファイルが存在しない場合は ErrManualNotFound を返す
func (l *Loader) Load(propertyID string) (*indexing.PropertyDocument, error) {
	path := filepath.Join(l.dir, propertyID+manualSuffix)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no manual for property %s: %w", propertyID, ErrManualNotFound)
		}
		return nil, fmt.Errorf("failed to read manual for property %s: %w", propertyID, err)
	}

	return &indexing.PropertyDocument{
		PropertyID: propertyID,
		Text:       string(data),
		LoadedAt:   time.Now(),
	}, nil
}

// LoadAll はディレクトリ内の全マニュアルを propertyID -> ドキュメントで返す
// ディレクトリが存在しない場合は空のマップを返す
func (l *Loader) LoadAll() (map[string]*indexing.PropertyDocument, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*indexing.PropertyDocument{}, nil
		}
		return nil, fmt.Errorf("failed to read manuals dir %s: %w", l.dir, err)
	}

	docs := make(map[string]*indexing.PropertyDocument)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		propertyID, ok := PropertyIDFromFilename(entry.Name())
		if !ok {
			continue
		}

		doc, err := l.Load(propertyID)
		if err != nil {
			return nil, err
		}
		docs[propertyID] = doc
	}
	return docs, nil
}

// PropertyIDFromFilename はマニュアルファイル名からプロパティIDを取り出す
func PropertyIDFromFilename(name string) (string, bool) {
	if !strings.HasSuffix(name, manualSuffix) {
		return "", false
	}
	propertyID := strings.TrimSuffix(name, manualSuffix)
	if propertyID == "" {
		return "", false
	}
	return propertyID, true
}
