package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Row 一行已清洗的行情+信号数据
type Row struct {
	Date   time.Time // 交易日
	Open   float64   // 开盘价
	High   float64   // 最高价
	Low    float64   // 最低价
	Close  float64   // 收盘价
	Volume float64   // 成交量
	Signal int       // 信号 (1 买入, -1 卖出, 0 持有)
}

// Loader 信号CSV加载器
type Loader struct{}

// NewLoader 创建加载器
func NewLoader() *Loader {
	return &Loader{}
}

// 支持的日期格式（日优先，兼容上游导出习惯）
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

// 表头别名（兼容中文表头的导出文件）
var headerAliases = map[string]string{
	"date": "date", "日期": "date",
	"open": "open", "开盘": "open", "开盘价": "open",
	"high": "high", "最高": "high", "最高价": "high",
	"low": "low", "最低": "low", "最低价": "low",
	"close": "close", "收盘": "close", "收盘价": "close",
	"volume": "volume", "成交量": "volume",
	"signal": "signal", "信号": "signal",
}

// LoadCSV 加载并清洗信号CSV文件
// 要求列: Date, Open, High, Low, Close, Volume, Signal
// 缺失字段或无法解析的行会被丢弃（排序与时间戳校验由引擎负责）
func (l *Loader) LoadCSV(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// 部分行情终端导出的CSV为GBK编码，先转换为UTF-8
	if !utf8.Valid(data) {
		data, err = decodeGBK(data)
		if err != nil {
			return nil, fmt.Errorf("转换文件编码失败: %w", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析CSV失败: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV文件缺少数据行: %s", path)
	}

	cols, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row, ok := parseRow(rec, cols)
		if !ok {
			// 丢弃不完整的行
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeGBK GBK转UTF-8（行情软件导出常见编码）
func decodeGBK(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
	return out, err
}

// mapHeader 解析表头，返回各字段所在列的下标
func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, 7)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if canonical, ok := headerAliases[key]; ok {
			cols[canonical] = i
		}
	}
	for _, want := range []string{"date", "open", "high", "low", "close", "volume", "signal"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("CSV缺少必需列: %s", want)
		}
	}
	return cols, nil
}

// parseRow 解析一行数据，任一字段缺失或非法则整行丢弃
func parseRow(rec []string, cols map[string]int) (Row, bool) {
	field := func(name string) (string, bool) {
		i := cols[name]
		if i >= len(rec) {
			return "", false
		}
		v := strings.TrimSpace(rec[i])
		return v, v != ""
	}

	ds, ok := field("date")
	if !ok {
		return Row{}, false
	}
	date, ok := parseDate(ds)
	if !ok {
		return Row{}, false
	}

	var row Row
	row.Date = date
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"open", &row.Open},
		{"high", &row.High},
		{"low", &row.Low},
		{"close", &row.Close},
		{"volume", &row.Volume},
	} {
		s, ok := field(f.name)
		if !ok {
			return Row{}, false
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return Row{}, false
		}
		*f.dst = v
	}

	ss, ok := field("signal")
	if !ok {
		return Row{}, false
	}
	// 兼容 "1.0" 这类浮点写法
	sv, err := strconv.ParseFloat(ss, 64)
	if err != nil || sv != float64(int(sv)) {
		return Row{}, false
	}
	row.Signal = int(sv)

	return row, true
}

// parseDate 按日优先的格式依次尝试解析日期
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
