// Package mockdata fabricates strategy API responses so the dashboard
// keeps rendering when the upstream is down.
package mockdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/indicator"
)

const marketDataPoints = 24

// mockSignals is the signal pool for synthesized analyses. Sell signals
// are excluded: a pullback scanner only surfaces long setups.
var mockSignals = []core.Signal{
	core.SignalStrongBuy,
	core.SignalBuy,
	core.SignalWeakBuy,
	core.SignalHold,
}

var candlePatterns = []struct {
	name       string
	confidence int
}{
	{"HAMMER", 75},
	{"BULLISH_ENGULFING", 85},
	{"MORNING_STAR", 90},
	{"BULLISH_CANDLE", 60},
	{"NONE", 0},
}

// Synthesizer generates plausible strategy data from a seeded random
// source. Same seed, same call sequence, same output.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New creates a Synthesizer driven by rng. A nil rng falls back to a
// time-seeded source.
func New(rng *rand.Rand) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Synthesizer{
		rng: rng,
		now: time.Now,
	}
}

// basePrice derives a stable per-symbol price anchor so repeated views
// of the same symbol stay in a familiar range.
func basePrice(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	n := h.Sum32()

	switch core.ClassifySymbol(symbol) {
	case core.SymbolForex:
		return round2(0.80 + float64(n%45)/100)
	case core.SymbolCrypto:
		return round2(100 + float64(n%59900))
	case core.SymbolCommodity:
		return round2(20 + float64(n%1980))
	default:
		return round2(20 + float64(n%980))
	}
}

// MarketData synthesizes a day of half-hour chart points as a random
// walk around the symbol's base price.
func (s *Synthesizer) MarketData(_ context.Context, symbol string) ([]core.MarketDataPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price := basePrice(symbol)
	points := make([]core.MarketDataPoint, 0, marketDataPoints)

	for i := 0; i < marketDataPoints; i++ {
		minutes := 9*60 + 30 + i*30
		clock := fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)

		price += (s.rng.Float64() - 0.5) * 0.04 * price
		if price < 0.01 {
			price = 0.01
		}

		points = append(points, core.MarketDataPoint{
			Time:   clock,
			Price:  round2(price),
			Volume: 500_000 + s.rng.Int63n(2_000_000),
		})
	}
	return points, nil
}

// PullbackAnalysis synthesizes a six-criteria evaluation. The trade
// setup keeps the stop at 5% below entry with targets at 2R and 3R, so
// the stop < entry < target1 < target2 ordering always holds.
func (s *Synthesizer) PullbackAnalysis(_ context.Context, symbol string) (*core.PullbackAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis(symbol), nil
}

func (s *Synthesizer) analysis(symbol string) *core.PullbackAnalysis {
	entry := round2(basePrice(symbol) * (0.95 + s.rng.Float64()*0.10))
	stop := round2(entry * 0.95)
	target1 := round2(entry * 1.10)
	target2 := round2(entry * 1.15)
	risk := round2(entry - stop)

	pattern := candlePatterns[s.rng.Intn(len(candlePatterns))]
	avgVolume := 1_000_000 + s.rng.Int63n(4_000_000)
	spikeRatio := round2(0.8 + s.rng.Float64()*1.7)
	distance := round2(s.rng.Float64() * 5)

	criteria := core.Criteria{
		DailyTrend: core.TrendCriterion{
			Met:           s.rng.Float64() < 0.7,
			EMATrend:      s.rng.Float64() < 0.7,
			HHHLStructure: s.rng.Float64() < 0.6,
			Details:       "EMA50 vs EMA200 with swing structure",
		},
		Pullback: core.PullbackCriterion{
			Met:         s.rng.Float64() < 0.6,
			NearEMA50:   s.rng.Float64() < 0.6,
			DistancePct: distance,
			Details:     fmt.Sprintf("%.2f%% from EMA50", distance),
		},
		Confirmation: core.ConfirmationCriterion{
			Met:               s.rng.Float64() < 0.6,
			Pattern:           pattern.name,
			PatternConfidence: pattern.confidence,
			RSI:               round2(35 + s.rng.Float64()*30),
			MACDBullish:       s.rng.Float64() < 0.5,
			Details:           "4H candle pattern with RSI and MACD",
		},
		VolumeSpike: core.VolumeCriterion{
			Met:           spikeRatio >= 1.5,
			CurrentVolume: int64(float64(avgVolume) * spikeRatio),
			AvgVolume:     avgVolume,
			SpikeRatio:    spikeRatio,
		},
		StopLoss: core.StopLossCriterion{
			Met:          s.rng.Float64() < 0.8,
			StopPrice:    stop,
			RiskPerShare: risk,
			RiskPct:      5.0,
			ATR:          round2(entry * 0.02 * (0.8 + s.rng.Float64()*0.4)),
		},
		RiskReward: core.RiskRewardCriterion{
			Met:          s.rng.Float64() < 0.75,
			Target2R:     target1,
			Target3R:     target2,
			RiskReward2R: "1:2",
			RiskReward3R: "1:3",
		},
	}

	return &core.PullbackAnalysis{
		Symbol:         symbol,
		Signal:         mockSignals[s.rng.Intn(len(mockSignals))],
		Confidence:     60 + s.rng.Intn(36),
		SignalStrength: round2(50 + s.rng.Float64()*50),
		Criteria:       criteria,
		TradeSetup: core.TradeSetup{
			EntryPrice: entry,
			StopLoss:   stop,
			Target1:    target1,
			Target2:    target2,
			RiskAmount: risk,
			Reward1:    round2(target1 - entry),
			Reward2:    round2(target2 - entry),
		},
		Timestamp: s.now().Format(core.TimestampLayout),
	}
}

// ScanPullbacks synthesizes a scan: each symbol clears the gate with
// probability 0.6, then the confidence filter applies, and survivors
// sort by confidence descending. An empty symbol list scans nothing;
// universe defaults belong to the caller.
func (s *Synthesizer) ScanPullbacks(_ context.Context, symbols []string, minConfidence int) (*core.ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	opportunities := make([]core.PullbackAnalysis, 0, len(symbols))
	for _, symbol := range symbols {
		include := s.rng.Float64() < 0.6
		analysis := s.analysis(symbol)
		if include && analysis.Confidence >= minConfidence {
			opportunities = append(opportunities, *analysis)
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Confidence > opportunities[j].Confidence
	})

	return &core.ScanResult{
		Opportunities:      opportunities,
		TotalScanned:       len(symbols),
		OpportunitiesFound: len(opportunities),
	}, nil
}

// StrategyBacktest synthesizes a backtest with 15-45 trades and a win
// rate between 55% and 85%. Wins and losses always sum to the total.
func (s *Synthesizer) StrategyBacktest(_ context.Context, symbol, period string, initialCapital float64) (*core.BacktestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if period == "" {
		period = "1y"
	}
	if initialCapital <= 0 {
		initialCapital = 10000
	}

	total := 15 + s.rng.Intn(31)

	// Pick the win count so the resulting rate stays inside 55-85%.
	lo := int(math.Ceil(float64(total) * 0.55))
	hi := int(math.Floor(float64(total) * 0.85))
	winning := lo + s.rng.Intn(hi-lo+1)
	losing := total - winning

	avgWin := round2(120 + s.rng.Float64()*380)
	avgLoss := round2(-(60 + s.rng.Float64()*200))
	totalReturn := round2(float64(winning)*avgWin + float64(losing)*avgLoss)

	trades := s.backtestTrades(symbol, total, winning)

	return &core.BacktestResult{
		Symbol:         symbol,
		Period:         period,
		InitialCapital: initialCapital,
		Metrics: core.BacktestMetrics{
			TotalTrades:    total,
			WinningTrades:  winning,
			LosingTrades:   losing,
			WinRate:        round2(float64(winning) / float64(total) * 100),
			TotalReturn:    totalReturn,
			TotalReturnPct: round2(totalReturn / initialCapital * 100),
			AvgWin:         avgWin,
			AvgLoss:        avgLoss,
			FinalCapital:   round2(initialCapital + totalReturn),
		},
		Trades: trades,
	}, nil
}

// backtestTrades builds the visible trade log: at most ten entries,
// most recent first, all within the last year.
func (s *Synthesizer) backtestTrades(symbol string, total, winning int) []core.BacktestTrade {
	n := total
	if n > 10 {
		n = 10
	}

	winRatio := float64(winning) / float64(total)
	base := basePrice(symbol)
	exit := s.now().AddDate(0, 0, -(1 + s.rng.Intn(5)))

	trades := make([]core.BacktestTrade, 0, n)
	for i := 0; i < n; i++ {
		holding := 3 + s.rng.Intn(13)
		entryDate := exit.AddDate(0, 0, -holding)

		entryPrice := round2(base * (0.90 + s.rng.Float64()*0.20))
		win := s.rng.Float64() < winRatio

		var exitPrice float64
		var reason string
		if win {
			exitPrice = round2(entryPrice * (1.0 + 0.02 + s.rng.Float64()*0.13))
			reason = core.ExitTargetHit
		} else {
			exitPrice = round2(entryPrice * (1.0 - 0.02 - s.rng.Float64()*0.04))
			reason = core.ExitStopLoss
		}

		shares := 10 + s.rng.Intn(90)
		pnl := round2((exitPrice - entryPrice) * float64(shares))

		trades = append(trades, core.BacktestTrade{
			EntryDate:  entryDate.Format(core.DateLayout),
			ExitDate:   exit.Format(core.DateLayout),
			EntryPrice: entryPrice,
			ExitPrice:  exitPrice,
			Shares:     shares,
			PnL:        pnl,
			ReturnPct:  round2((exitPrice - entryPrice) / entryPrice * 100),
			ExitReason: reason,
		})

		exit = entryDate.AddDate(0, 0, -(2 + s.rng.Intn(12)))
	}
	return trades
}

// StrategyStatus synthesizes the compact indicator panel. Both EMAs
// are computed from one synthetic close series, so the averages and
// the trend stay consistent with each other.
func (s *Synthesizer) StrategyStatus(_ context.Context, symbol string) (*core.StrategyStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	closes := s.dailyCloses(basePrice(symbol), 200)
	fast := indicator.EMA(closes, 50)
	slow := indicator.EMA(closes, 200)
	ema50 := round2(fast[len(fast)-1])
	ema200 := round2(slow[len(slow)-1])

	trend := "DOWN"
	if ema50 > ema200 {
		trend = "UP"
	}
	macd := "BEARISH"
	if s.rng.Float64() < 0.5 {
		macd = "BULLISH"
	}

	return &core.StrategyStatus{
		DailyTrend:  trend,
		EMA50:       ema50,
		EMA200:      ema200,
		RSI:         round2(30 + s.rng.Float64()*40),
		MACD:        macd,
		VolumeSpike: s.rng.Float64() < 0.4,
		LastUpdate:  s.now().Format(core.TimestampLayout),
	}, nil
}

// dailyCloses synthesizes n daily closes as a random walk anchored to
// the symbol's base price.
func (s *Synthesizer) dailyCloses(base float64, n int) []float64 {
	closes := make([]float64, n)
	price := base * (0.85 + s.rng.Float64()*0.30)
	for i := range closes {
		price *= 1 + (s.rng.Float64()-0.5)*0.03
		if price < 0.01 {
			price = 0.01
		}
		closes[i] = price
	}
	return closes
}

// LegacyBacktest synthesizes the batch EMA-crossover results the old
// dashboard table rendered, one row per Nasdaq symbol.
func (s *Synthesizer) LegacyBacktest(_ context.Context, symbol, period string) ([]core.LegacyBacktestRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]core.LegacyBacktestRow, 0, len(core.NasdaqTop10))
	for _, sym := range core.NasdaqTop10 {
		rows = append(rows, s.legacyRow(sym))
	}
	return rows, nil
}

func (s *Synthesizer) legacyRow(symbol string) core.LegacyBacktestRow {
	base := basePrice(symbol)
	rounds := 2 + s.rng.Intn(7)
	when := s.now().AddDate(0, 0, -rounds*9)

	trades := make([]core.LegacyTrade, 0, rounds*2)
	returns := make([]float64, 0, rounds)
	totalPnL := 0.0

	for i := 0; i < rounds; i++ {
		entry := round2(base * (0.92 + s.rng.Float64()*0.16))
		exit := round2(entry * (0.95 + s.rng.Float64()*0.12))
		pnl := round2(exit - entry)

		trades = append(trades, core.LegacyTrade{
			Type:  "BUY",
			Price: entry,
			Time:  when.Format("2006-01-02 15:04"),
			PnL:   "",
		})
		when = when.AddDate(0, 0, 2+s.rng.Intn(5))
		trades = append(trades, core.LegacyTrade{
			Type:  "SELL",
			Price: exit,
			Time:  when.Format("2006-01-02 15:04"),
			PnL:   fmt.Sprintf("%.2f", pnl),
		})
		when = when.AddDate(0, 0, 1+s.rng.Intn(4))

		returns = append(returns, pnl)
		totalPnL += pnl
	}

	wins := 0
	minReturn := returns[0]
	for _, r := range returns {
		if r > 0 {
			wins++
		}
		if r < minReturn {
			minReturn = r
		}
	}

	avg, _ := stats.Mean(returns)
	sharpe := 0.0
	if len(returns) > 1 {
		if sd, err := stats.StandardDeviation(returns); err == nil && sd != 0 {
			sharpe = round2(avg / sd)
		}
	}

	return core.LegacyBacktestRow{
		Symbol:      symbol,
		TotalTrades: rounds,
		WinRate:     round2(float64(wins) / float64(rounds) * 100),
		AvgReturn:   round2(avg),
		MaxDrawdown: round2(minReturn),
		SharpeRatio: sharpe,
		Trades:      trades,
		TotalPnL:    round2(totalPnL),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
