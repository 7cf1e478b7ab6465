package core

import "time"

// Signal represents a trading signal emitted by the strategy API.
type Signal string

const (
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalBuy        Signal = "BUY"
	SignalWeakBuy    Signal = "WEAK_BUY"
	SignalHold       Signal = "HOLD"
	SignalSell       Signal = "SELL"
	SignalStrongSell Signal = "STRONG_SELL"
)

// IsBuy reports whether the signal is on the buy side.
func (s Signal) IsBuy() bool {
	return s == SignalStrongBuy || s == SignalBuy || s == SignalWeakBuy
}

// Valid reports whether the signal is one of the known values.
func (s Signal) Valid() bool {
	switch s {
	case SignalStrongBuy, SignalBuy, SignalWeakBuy, SignalHold, SignalSell, SignalStrongSell:
		return true
	}
	return false
}

// Wire time layouts used by the strategy API.
const (
	ClockLayout     = "15:04"               // intraday chart points
	DateLayout      = "2006-01-02"          // trade entry/exit dates
	TimestampLayout = "2006-01-02 15:04:05" // analysis timestamps
)

// MarketDataPoint is a single intraday chart point.
type MarketDataPoint struct {
	Time   string  `json:"time"`
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
}

// TrendCriterion reports the daily trend check (EMA50 above EMA200 with
// a higher-highs/higher-lows structure).
type TrendCriterion struct {
	Met           bool   `json:"met"`
	EMATrend      bool   `json:"ema_trend"`
	HHHLStructure bool   `json:"hh_hl_structure"`
	Details       string `json:"details"`
}

// PullbackCriterion reports the pullback-to-EMA50 check.
type PullbackCriterion struct {
	Met         bool    `json:"met"`
	NearEMA50   bool    `json:"near_ema50"`
	DistancePct float64 `json:"distance_pct"`
	Details     string  `json:"details"`
}

// ConfirmationCriterion reports the 4H bullish confirmation check
// (candle pattern, RSI, MACD).
type ConfirmationCriterion struct {
	Met               bool    `json:"met"`
	Pattern           string  `json:"pattern"`
	PatternConfidence int     `json:"pattern_confidence"`
	RSI               float64 `json:"rsi"`
	MACDBullish       bool    `json:"macd_bullish"`
	Details           string  `json:"details"`
}

// VolumeCriterion reports the volume spike check.
type VolumeCriterion struct {
	Met           bool    `json:"met"`
	CurrentVolume int64   `json:"current_volume"`
	AvgVolume     int64   `json:"avg_volume"`
	SpikeRatio    float64 `json:"spike_ratio"`
}

// StopLossCriterion reports the stop placement check.
type StopLossCriterion struct {
	Met          bool    `json:"met"`
	StopPrice    float64 `json:"stop_price"`
	RiskPerShare float64 `json:"risk_per_share"`
	RiskPct      float64 `json:"risk_pct"`
	ATR          float64 `json:"atr"`
}

// RiskRewardCriterion reports the risk/reward check.
type RiskRewardCriterion struct {
	Met          bool    `json:"met"`
	Target2R     float64 `json:"target_2r"`
	Target3R     float64 `json:"target_3r"`
	RiskReward2R string  `json:"risk_reward_2r"`
	RiskReward3R string  `json:"risk_reward_3r"`
}

// Criteria groups the six pullback-strategy checks. The JSON keys mirror
// the numbered keys the strategy API emits.
type Criteria struct {
	DailyTrend   TrendCriterion        `json:"1_daily_trend"`
	Pullback     PullbackCriterion     `json:"2_pullback"`
	Confirmation ConfirmationCriterion `json:"3_4h_confirmation"`
	VolumeSpike  VolumeCriterion       `json:"4_volume_spike"`
	StopLoss     StopLossCriterion     `json:"5_stop_loss"`
	RiskReward   RiskRewardCriterion   `json:"6_risk_reward"`
}

// MetCount returns how many of the six criteria are satisfied.
func (c Criteria) MetCount() int {
	n := 0
	for _, met := range []bool{
		c.DailyTrend.Met,
		c.Pullback.Met,
		c.Confirmation.Met,
		c.VolumeSpike.Met,
		c.StopLoss.Met,
		c.RiskReward.Met,
	} {
		if met {
			n++
		}
	}
	return n
}

// TradeSetup holds the entry/stop/target prices for a candidate trade.
type TradeSetup struct {
	EntryPrice float64 `json:"entry_price"`
	StopLoss   float64 `json:"stop_loss"`
	Target1    float64 `json:"target_1"`
	Target2    float64 `json:"target_2"`
	RiskAmount float64 `json:"risk_amount"`
	Reward1    float64 `json:"reward_1"`
	Reward2    float64 `json:"reward_2"`
}

// Ordered reports whether the setup prices satisfy
// stop < entry < target1 < target2.
func (t TradeSetup) Ordered() bool {
	return t.StopLoss < t.EntryPrice &&
		t.EntryPrice < t.Target1 &&
		t.Target1 < t.Target2
}

// PullbackAnalysis is the full six-criteria evaluation for one symbol.
type PullbackAnalysis struct {
	Symbol         string     `json:"symbol"`
	Signal         Signal     `json:"signal"`
	Confidence     int        `json:"confidence"`
	SignalStrength float64    `json:"signal_strength"`
	Criteria       Criteria   `json:"criteria"`
	TradeSetup     TradeSetup `json:"trade_setup"`
	Timestamp      string     `json:"timestamp"`
}

// ScanResult is the outcome of scanning a symbol list for pullback setups.
type ScanResult struct {
	Opportunities      []PullbackAnalysis `json:"opportunities"`
	TotalScanned       int                `json:"total_scanned"`
	OpportunitiesFound int                `json:"opportunities_found"`
}

// BacktestMetrics summarizes backtest performance.
type BacktestMetrics struct {
	TotalTrades    int     `json:"total_trades"`
	WinningTrades  int     `json:"winning_trades"`
	LosingTrades   int     `json:"losing_trades"`
	WinRate        float64 `json:"win_rate"`
	TotalReturn    float64 `json:"total_return"`
	TotalReturnPct float64 `json:"total_return_pct"`
	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"`
	FinalCapital   float64 `json:"final_capital"`
	Message        string  `json:"message,omitempty"`
}

// BacktestTrade is one simulated round trip from a backtest run.
type BacktestTrade struct {
	EntryDate  string  `json:"entry_date"`
	ExitDate   string  `json:"exit_date"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	Shares     int     `json:"shares"`
	PnL        float64 `json:"pnl"`
	ReturnPct  float64 `json:"return_pct"`
	ExitReason string  `json:"exit_reason"`
}

// Trade exit reasons reported by the backtester.
const (
	ExitStopLoss  = "STOP_LOSS"
	ExitTargetHit = "TARGET_HIT"
)

// BacktestResult is a single-symbol strategy backtest.
type BacktestResult struct {
	Symbol         string          `json:"symbol"`
	Period         string          `json:"period"`
	InitialCapital float64         `json:"initial_capital"`
	Metrics        BacktestMetrics `json:"metrics"`
	Trades         []BacktestTrade `json:"trades"`
}

// StrategyStatus is the compact per-symbol strategy panel from the
// legacy status endpoint.
type StrategyStatus struct {
	DailyTrend  string  `json:"dailyTrend"`
	EMA50       float64 `json:"ema50"`
	EMA200      float64 `json:"ema200"`
	RSI         float64 `json:"rsi"`
	MACD        string  `json:"macd"`
	VolumeSpike bool    `json:"volumeSpike"`
	LastUpdate  string  `json:"lastUpdate"`
}

// LegacyTrade is one entry in the legacy batch-backtest trade log.
type LegacyTrade struct {
	Type  string  `json:"type"`
	Price float64 `json:"price"`
	Time  string  `json:"time"`
	PnL   string  `json:"pnl"`
}

// LegacyBacktestRow is a per-symbol row from the legacy batch backtest.
type LegacyBacktestRow struct {
	Symbol      string        `json:"symbol"`
	TotalTrades int           `json:"totalTrades"`
	WinRate     float64       `json:"winRate"`
	AvgReturn   float64       `json:"avgReturn"`
	MaxDrawdown float64       `json:"maxDrawdown"`
	SharpeRatio float64       `json:"sharpeRatio"`
	Trades      []LegacyTrade `json:"trades"`
	TotalPnL    float64       `json:"totalPnL"`
}

// DashboardSnapshot is the assembled single-symbol dashboard view. The
// sequence is a per-symbol monotonic counter; a snapshot only replaces
// one with a lower sequence.
type DashboardSnapshot struct {
	Symbol      string            `json:"symbol"`
	MarketData  []MarketDataPoint `json:"market_data"`
	Analysis    *PullbackAnalysis `json:"analysis,omitempty"`
	Status      *StrategyStatus   `json:"status,omitempty"`
	Connected   bool              `json:"connected"`
	Sequence    uint64            `json:"sequence"`
	RefreshedAt time.Time         `json:"refreshed_at"`
}
