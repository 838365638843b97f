package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gonewx/clubhero/pkg/events"
	"github.com/klauspost/compress/zstd"
)

type journalFile struct {
	name string
	hour string
	part int
}

// ListFiles 返回目录中按小时与分段排序的日志文件
func ListFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]journalFile, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if hour, part, ok := parseFileName(e.Name()); ok {
			files = append(files, journalFile{name: e.Name(), hour: hour, part: part})
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].hour != files[j].hour {
			return files[i].hour < files[j].hour
		}
		return files[i].part < files[j].part
	})
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, filepath.Join(dir, f.name))
	}
	return out, nil
}

// ReadFile 逐行读取一个日志文件
// 未正常关闭的文件以未结束的 zstd 帧结尾，读到的完整行照常返回
func ReadFile(path string, fn func(Entry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		var entry Entry
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			return fmt.Errorf("%s:%d: unmarshal: %w", filepath.Base(path), line, err)
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// AnchorStats 单个锚点的统计
type AnchorStats struct {
	Reveals int
	// Closes 悬停结束次数（包括未揭示的悬停）
	Closes int
	// Hovers 非空 HoverChanged 事件数（悬停开始与悬停中成形变化）
	Hovers int
}

// Stats 日志统计
type Stats struct {
	Entries int
	// ClearedHovers 悬停结束（空目标）的次数
	ClearedHovers int
	Anchors       map[string]*AnchorStats
}

// NewStats 创建空统计
func NewStats() *Stats {
	return &Stats{Anchors: make(map[string]*AnchorStats)}
}

func (s *Stats) anchor(id string) *AnchorStats {
	a, ok := s.Anchors[id]
	if !ok {
		a = &AnchorStats{}
		s.Anchors[id] = a
	}
	return a
}

// Add 计入一条日志
func (s *Stats) Add(entry Entry) error {
	e, err := events.Unwrap(entry.Envelope)
	if err != nil {
		return err
	}
	s.Entries++
	switch ev := e.(type) {
	case events.ShowReveal:
		s.anchor(ev.AnchorID).Reveals++
	case events.CloseReveal:
		s.anchor(ev.AnchorID).Closes++
	case events.HoverChanged:
		if ev.AnchorID == nil {
			s.ClearedHovers++
		} else {
			s.anchor(*ev.AnchorID).Hovers++
		}
	}
	return nil
}

// AnchorIDs 返回按 ID 排序的锚点列表
func (s *Stats) AnchorIDs() []string {
	ids := make([]string, 0, len(s.Anchors))
	for id := range s.Anchors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ReadDir 读取目录中所有日志文件并汇总
func ReadDir(dir string) (*Stats, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	stats := NewStats()
	for _, path := range files {
		if err := ReadFile(path, stats.Add); err != nil {
			return nil, err
		}
	}
	return stats, nil
}
