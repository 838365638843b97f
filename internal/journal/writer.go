// Package journal 把编队引擎发出的事件写入按小时轮转的 zstd 压缩 JSONL 文件
//
// 文件名格式为 events-YYYY-MM-DD-HH.jsonl.zst（UTC），每行一个 Entry。
// 同一小时内重启时不追加到已有文件（上次会话的 zstd 帧可能未结束），
// 而是写入 events-YYYY-MM-DD-HH.N.jsonl.zst。
// 日志只记录状态转换事件，写入频率很低，因此在帧循环协程内同步写入，
// 每行写入后刷新 zstd 块，进程异常退出时已写入的行仍可读。
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gonewx/clubhero/pkg/events"
	"github.com/klauspost/compress/zstd"
)

const (
	filePrefix = "events"
	fileSuffix = ".jsonl.zst"
	hourLayout = "2006-01-02-15"
)

// Entry 日志中的一行
type Entry struct {
	Time time.Time `json:"ts"`
	events.Envelope
}

// Writer 按小时轮转的 JSONL + zstd 写入器
type Writer struct {
	baseDir string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
	closed  bool

	// failed 写入失败后只记录一次日志
	failed bool
}

// NewWriter 创建写入器，目录在第一次写入时创建
func NewWriter(baseDir string) *Writer {
	return &Writer{
		baseDir: baseDir,
		now:     time.Now,
	}
}

// Dir 返回日志目录
func (w *Writer) Dir() string {
	return w.baseDir
}

// Write 追加一行
func (w *Writer) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("journal writer is closed")
	}

	hour := w.now().UTC().Format(hourLayout)
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

// Record 实现 events.Handler：把事件包装为 Entry 写入
// 写入错误不会中断帧循环，只记录第一次失败
func (w *Writer) Record(seq uint64, e events.Event) {
	env, err := events.Wrap(seq, e)
	if err == nil {
		err = w.Write(Entry{Time: w.now().UTC(), Envelope: env})
	}
	if err != nil && !w.failed {
		w.failed = true
		log.Printf("[Journal] write failed, further errors suppressed: %v", err)
	}
}

func (w *Writer) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return fmt.Errorf("failed to create journal dir: %w", err)
	}
	path, f, err := w.createForHour(hour)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 16*1024)
	w.curHour = hour
	log.Printf("[Journal] writing %s", filepath.Base(path))
	return nil
}

func (w *Writer) closeLocked() error {
	var err error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return err
}

// Close 关闭当前文件（幂等）
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.closeLocked()
}

// createForHour 创建该小时第一个不存在的分段文件
func (w *Writer) createForHour(hour string) (string, *os.File, error) {
	for part := 0; ; part++ {
		path := filepath.Join(w.baseDir, fileName(hour, part))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return path, f, err
	}
}

// fileName 第 0 段不带分段号
func fileName(hour string, part int) string {
	if part == 0 {
		return fmt.Sprintf("%s-%s%s", filePrefix, hour, fileSuffix)
	}
	return fmt.Sprintf("%s-%s.%d%s", filePrefix, hour, part, fileSuffix)
}

// parseFileName 解析日志文件名，返回小时与分段号
func parseFileName(name string) (hour string, part int, ok bool) {
	if !strings.HasPrefix(name, filePrefix+"-") || !strings.HasSuffix(name, fileSuffix) {
		return "", 0, false
	}
	stem := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix+"-"), fileSuffix)
	hour, partStr, hasPart := strings.Cut(stem, ".")
	if _, err := time.Parse(hourLayout, hour); err != nil {
		return "", 0, false
	}
	if !hasPart {
		return hour, 0, true
	}
	part, err := strconv.Atoi(partStr)
	if err != nil || part <= 0 {
		return "", 0, false
	}
	return hour, part, true
}
