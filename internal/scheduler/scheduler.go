package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/uniqueww/daily-stock-analysis-ql/internal/analyzer"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/config"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/fetcher"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/model"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/notifier"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/recorder"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/report"
)

// Scheduler runs the daily analysis batch, either on a cron schedule or
// on demand via RunDaily.
type Scheduler struct {
	Cron     *cron.Cron
	Manager  *fetcher.Manager
	Notifier notifier.Notifier
	Recorder recorder.Recorder
	Cfg      *config.Config
	Ctx      context.Context
}

// New creates a Scheduler; the cron spec includes a seconds field.
func New(ctx context.Context, m *fetcher.Manager, n notifier.Notifier, rec recorder.Recorder, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Manager:  m,
		Notifier: n,
		Recorder: rec,
		Cfg:      cfg,
		Ctx:      ctx,
	}
}

// Register installs the daily analysis task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.RunDaily); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info("scheduler stopped")
}

type outcome struct {
	signal  *model.StockSignal
	failure string
}

// RunDaily analyzes the configured stock list with a bounded worker
// pool, renders the report, delivers it and records each outcome. One
// stock's failure never aborts the batch.
func (s *Scheduler) RunDaily() {
	stocks := s.Cfg.Stocks
	if len(stocks) == 0 {
		log.Warn("股票列表为空，跳过本次分析")
		return
	}
	workers := s.Cfg.MaxWorkers
	if workers <= 0 {
		workers = 1
	}
	log.Infof("开始分析 %d 只股票 (并发 %d)", len(stocks), workers)

	results := make([]outcome, len(stocks))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.analyzeOne(stocks[i])
			}
		}()
	}
	for i := range stocks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var signals []*model.StockSignal
	var failures []string
	for _, r := range results {
		if r.signal != nil {
			signals = append(signals, r.signal)
		} else if r.failure != "" {
			failures = append(failures, r.failure)
		}
	}

	day := time.Now()
	content := report.FormatDaily(day, signals, failures)
	if path, err := report.Write(s.Cfg.Report.OutputDir, day, content); err != nil {
		log.Errorf("保存报告失败: %v", err)
	} else {
		log.Infof("报告已保存: %s", path)
	}

	s.trySend(fmt.Sprintf("📊 A股每日分析 %s", day.Format("2006-01-02")), content)

	for _, sig := range signals {
		if err := s.Recorder.RecordAnalysis(&recorder.AnalysisRecord{
			Code:        sig.Code,
			TradeDate:   sig.TradeDate,
			Source:      sig.Source,
			Close:       sig.Latest.Close,
			PctChg:      sig.Latest.PctChg,
			MA5:         sig.Latest.MA5,
			MA10:        sig.Latest.MA10,
			MA20:        sig.Latest.MA20,
			VolumeRatio: sig.Latest.VolumeRatio,
			TotalScore:  sig.TotalScore,
			Advice:      sig.Advice,
		}); err != nil {
			log.Errorf("记录 %s 分析结果失败: %v", sig.Code, err)
		}
	}

	log.Infof("本次分析完成: 成功 %d, 失败 %d", len(signals), len(failures))
}

func (s *Scheduler) analyzeOne(code string) outcome {
	bars, source, err := s.Manager.GetDailyData(s.Ctx, code, "", "", fetcher.DefaultDays)
	if err != nil {
		log.Errorf("%s 分析失败: %v", code, err)
		return outcome{failure: fmt.Sprintf("%s: %v", code, err)}
	}

	// Side lookups are best-effort; an absent result degrades the
	// analysis, never fails it.
	quote, _ := s.Manager.RealtimeQuote(s.Ctx, code)
	chip, _ := s.Manager.ChipDistribution(s.Ctx, code)

	return outcome{signal: analyzer.Evaluate(code, source, bars, quote, chip)}
}

type retrySender interface {
	SendWithRetry(ctx context.Context, title, content string, maxRetries int) error
}

func (s *Scheduler) trySend(title, content string) {
	var err error
	if rs, ok := s.Notifier.(retrySender); ok {
		err = rs.SendWithRetry(s.Ctx, title, content, 3)
	} else {
		err = s.Notifier.Send(title, content)
	}
	if err != nil {
		log.Errorf("发送通知失败: %v", err)
	}
}
