package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uniqueww/daily-stock-analysis-ql/internal/model"
)

// FormatDaily renders the Markdown report for one batch run. failures
// holds pre-formatted "code: reason" lines for stocks that produced no
// signal.
func FormatDaily(day time.Time, signals []*model.StockSignal, failures []string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# A股每日分析 | %s\n\n", day.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("共分析 %d 只股票", len(signals)))
	if len(failures) > 0 {
		b.WriteString(fmt.Sprintf("，%d 只获取失败", len(failures)))
	}
	b.WriteString("\n\n")

	for _, s := range signals {
		b.WriteString(FormatStock(s))
		b.WriteString("\n")
	}

	if len(failures) > 0 {
		b.WriteString("## 获取失败\n\n")
		for _, f := range failures {
			b.WriteString(fmt.Sprintf("- %s\n", f))
		}
	}

	return b.String()
}

// FormatStock renders one stock's section of the daily report.
func FormatStock(s *model.StockSignal) string {
	var b strings.Builder

	title := s.Code
	if s.Quote != nil && s.Quote.Name != "" {
		title = fmt.Sprintf("%s (%s)", s.Quote.Name, s.Code)
	}
	b.WriteString(fmt.Sprintf("## %s\n\n", title))

	b.WriteString(fmt.Sprintf("- 收盘: %.2f (%s) | 数据源: %s\n", s.Latest.Close, fmtPct(s.Latest.PctChg), s.Source))
	b.WriteString(fmt.Sprintf("- MA5/MA10/MA20: %.2f / %.2f / %.2f | 量比: %.2f\n",
		s.Latest.MA5, s.Latest.MA10, s.Latest.MA20, s.Latest.VolumeRatio))
	if s.Quote != nil {
		b.WriteString(fmt.Sprintf("- 换手率: %.2f%% | 市盈率: %.2f | 市净率: %.2f\n",
			s.Quote.TurnoverRate, s.Quote.PERatio, s.Quote.PBRatio))
	}
	if s.Chip != nil {
		b.WriteString(fmt.Sprintf("- 获利比例: %.0f%% | 平均成本: %.2f | 90%%集中度: %.1f%%\n",
			s.Chip.ProfitRatio*100, s.Chip.AvgCost, s.Chip.Concentration90*100))
	}

	b.WriteString("- 因子评分:\n")
	for _, f := range s.Factors {
		b.WriteString(fmt.Sprintf("  - %s(%s): %+.1f (×%.2f) = %+.3f\n",
			f.Name, f.Commentary, f.RawScore, f.Weight, f.Weighted))
	}
	b.WriteString(fmt.Sprintf("- 综合评分: %+.3f | 建议: **%s**\n", s.TotalScore, s.Advice))
	if s.Warning != "" {
		b.WriteString(fmt.Sprintf("- %s\n", s.Warning))
	}

	return b.String()
}

// Write saves the report under dir as YYYY-MM-DD.md and returns the path.
func Write(dir string, day time.Time, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, day.Format("2006-01-02")+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func fmtPct(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%+.2f%%", v)
}
