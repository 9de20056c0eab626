package indexing

import "fmt"

// separators はチャンク分割の境界候補（優先度順）
// 段落境界 → 行境界 → 文境界 → 語境界 の順に試し、どれも使えない場合のみ
// 文字数での強制分割にフォールバックする
var separators = []string{"\n\n", "\n", ". ", " "}

// Chunker はテキストを境界を優先しつつ固定サイズ上限で分割します
// 同一入力からは常に同一の分割結果が得られます
type Chunker struct {
	minChars     int
	maxChars     int
	overlapChars int
}

// NewChunker は新しいChunkerを作成します
// サイズはルーン単位。maxChars はオーバーラップと最小チャンクを収容できる
// 大きさでなければなりません
func NewChunker(minChars, maxChars, overlapChars int) (*Chunker, error) {
	if minChars <= 0 || maxChars <= 0 || overlapChars < 0 {
		return nil, fmt.Errorf("chunk sizes must be positive (min=%d max=%d overlap=%d)", minChars, maxChars, overlapChars)
	}
	if maxChars-overlapChars <= minChars {
		return nil, fmt.Errorf("maxChars (%d) must exceed overlapChars (%d) + minChars (%d)", maxChars, overlapChars, minChars)
	}

	return &Chunker{
		minChars:     minChars,
		maxChars:     maxChars,
		overlapChars: overlapChars,
	}, nil
}

// Span は元テキスト内のチャンク範囲を表す（ルーンオフセット、半開区間）
type Span struct {
	Start int
	End   int
	Text  string
}

// Split はテキストをチャンク範囲に分割します
// 連続するチャンクは overlapChars 文字の文脈を共有し、最終チャンクを除く
// すべてのチャンク長は [minChars, maxChars] に収まります
func (c *Chunker) Split(text string) []Span {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	// オーバーラップを足しても maxChars を超えないようにセグメント予算を絞る
	budget := c.maxChars - c.overlapChars

	// 原子断片の上限を budget-minChars に抑えることで、貪欲マージで
	// 確定する非最終セグメントが常に minChars を超えることを保証する
	atoms := c.splitAtoms(runes, 0, len(runes), 0, budget-c.minChars)

	segments := mergeAtoms(atoms, budget)

	spans := make([]Span, 0, len(segments))
	for i, seg := range segments {
		start := seg.start
		if i > 0 {
			start -= c.overlapChars
			if start < 0 {
				start = 0
			}
		}
		spans = append(spans, Span{
			Start: start,
			End:   seg.end,
			Text:  string(runes[start:seg.end]),
		})
	}
	return spans
}

type segment struct {
	start int
	end   int
}

// splitAtoms は [start,end) を limit 以下の断片列に分割します
// sepIdx 番目の区切りで切り、大きすぎる断片にはより細かい区切りを適用する
func (c *Chunker) splitAtoms(runes []rune, start, end, sepIdx, limit int) []segment {
	if end-start <= limit {
		return []segment{{start: start, end: end}}
	}

	if sepIdx >= len(separators) {
		// 区切り候補が尽きた場合は文字数で強制分割
		var out []segment
		for s := start; s < end; s += limit {
			e := s + limit
			if e > end {
				e = end
			}
			out = append(out, segment{start: s, end: e})
		}
		return out
	}

	sep := []rune(separators[sepIdx])
	var out []segment
	s := start
	for s < end {
		// 区切り文字列は左側の断片に含める
		i := indexRunes(runes, sep, s, end)
		e := end
		if i >= 0 {
			e = i + len(sep)
		}
		if e-s <= limit {
			out = append(out, segment{start: s, end: e})
		} else {
			out = append(out, c.splitAtoms(runes, s, e, sepIdx+1, limit)...)
		}
		s = e
	}
	return out
}

// mergeAtoms は隣接する断片を budget を超えない範囲で貪欲に結合します
func mergeAtoms(atoms []segment, budget int) []segment {
	var out []segment
	var cur *segment
	for _, a := range atoms {
		if cur == nil {
			next := a
			cur = &next
			continue
		}
		if a.end-cur.start > budget {
			out = append(out, *cur)
			next := a
			cur = &next
			continue
		}
		cur.end = a.end
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// indexRunes は runes[from:to) 内で sep が最初に現れる位置を返します
func indexRunes(runes []rune, sep []rune, from, to int) int {
	if len(sep) == 0 {
		return -1
	}
	for i := from; i+len(sep) <= to; i++ {
		match := true
		for j := range sep {
			if runes[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
