package models

// GameKind identifies one of the supported game types
type GameKind string

const (
	GameCoinflip GameKind = "coinflip"
	GameDice     GameKind = "dice"
	GameCrash    GameKind = "crash"
	GameMines    GameKind = "mines"
	GameWheel    GameKind = "wheel"
	GamePenalty  GameKind = "penalty"
	GamePlinko   GameKind = "plinko"
	GameStreak   GameKind = "streak" // progressive coinflip
)

// Disposition is the terminal outcome of a settled session
type Disposition string

const (
	DispositionWin    Disposition = "win"
	DispositionLoss   Disposition = "loss"
	DispositionRefund Disposition = "refund"
)

// GameParams carries game-specific options supplied with a wager command
type GameParams struct {
	// Coinflip: the side called by the player ("heads" or "tails")
	CoinSide string
	// Mines: number of mines to place (1-24)
	MineCount int
	// Penalty: shot direction ("left", "middle", "right")
	ShotDirection string
}

// SessionSnapshot is the presentation-facing view of a live session's state
type SessionSnapshot struct {
	SessionID  string
	AccountID  int64
	Kind       GameKind
	Stake      Stake
	Multiplier float64
	// Crash
	CrashPoint float64
	Crashed    bool
	// Mines
	Revealed      int
	RevealedTiles []int
	MineCount     int
	Mines         []int
	// Streak
	Round int
}

// SettlementResult is returned to the caller once a session settles
type SettlementResult struct {
	SessionID   string
	AccountID   int64
	Kind        GameKind
	Disposition Disposition
	Stake       Stake
	// Payout is the amount credited for a win, or the refunded total for a
	// refund. Zero for a loss.
	Payout     int64
	Multiplier float64
}
