package classify

import (
	"math"
	"strings"
)

// Crypto-market phrase lexicons. The classifier handles general sentiment;
// these catch domain jargon ("rekt", "depeg", "ngmi") that general models
// read as neutral.
var bearishPatterns = []string{
	"sits out", "underperform", "lags behind", "misses rally", "fails to rally",
	"left behind", "wiped out", "liquidation", "liquidations", "liquidated",
	"traded down", "heavy sells", "nasty discount", "dump", "sell-off",
	"forced selling", "redemption pressure", "slippage", "market panic",
	"bankruptcy", "default", "margin call", "price crash", "drawdown",
	"underwater positions", "capitulation", "whales selling", "debt unwind",
	"protocol exploit", "rug pull", "hack", "security breach", "bearish",
	"rejection", "weakness", "falling", "plunge", "collapse", "decline",
	"downtrend", "blood bath", "support broken", "key level lost",
	"sell pressure", "trapped longs", "fud", "panic selling", "stop loss hunt",
	"cascading liquidations", "delisting", "scam", "ponzi", "fraud",
	"manipulation", "wash trading", "spoofing", "regulatory action",
	"investigation", "lawsuit", "enforcement", "sanctions", "network congestion",
	"failed transaction", "chain halt", "validator slashing", "depeg",
	"bank run", "insolvency", "frozen withdrawals", "trading suspended",
	"massive outflow", "capital flight", "selling climax", "weak hands",
	"retail capitulation", "institutional exit", "de-risking", "risk-off",
	"delayed launch", "vaporware", "ghost chain", "abandoned project",
	"death spiral", "negative funding", "exit scam", "honeypot", "token unlock",
	"sell the news", "rekt", "down bad", "hfsp", "goblin town", "ngmi",
	"exit liquidity", "stay poor", "bagholder", "paper hands", "slow rug",
	"open short", "shorting", "heavily shorted", "exchange inflows",
	"liquidated longs", "📉", "🩸", "💀", "🤮", "🐻", "🔴",
}

var bullishPatterns = []string{
	"record highs", "all time high", "new ath", "profits", "gains", "surge",
	"spike", "market cap has jumped", "demand for", "adoption of",
	"increased by", "growth in", "bullish", "strong performance",
	"positive momentum", "buying pressure", "institutional inflows",
	"recovery", "price rally", "moon", "market confidence",
	"liquidity injection", "protocol upgrade", "staking rewards", "airdrops",
	"yield farming", "partnership", "strategic investment", "token burn",
	"network growth", "breakout", "parabolic", "explosive growth",
	"to the moon", "bullish divergence", "golden cross", "support holding",
	"accumulation", "smart money buying", "whale accumulation",
	"massive inflow", "record volume", "breakthrough", "milestone reached",
	"listing announcement", "exchange listing", "coinbase listing",
	"binance listing", "institutional adoption", "etf approval",
	"regulatory clarity", "legal victory", "mainnet launch", "product release",
	"ecosystem expansion", "layer 2 integration", "cross chain",
	"developer activity", "active development", "audit passed", "deflationary",
	"buyback", "burn mechanism", "supply shock", "store of value",
	"digital gold", "inflation hedge", "safe haven", "network effect",
	"viral growth", "user adoption", "transaction volume surge",
	"hash rate increase", "trading volume spike", "custody solution",
	"treasury allocation", "corporate adoption", "payment integration",
	"community growth", "diamond hands", "hodl", "conviction buy",
	"short squeeze", "price discovery", "wagmi", "lfg", "up only", "pamp",
	"generational bottom", "smart money", "full send", "bull flag",
	"undervalued", "blue chip", "open long", "longing", "spot buying",
	"supply crunch", "price rises", "rotation into", "🚀", "📈", "💎", "🔥",
	"🐂", "🌕", "🟢",
}

// adjustmentFactor scales phrase density into score movement.
const adjustmentFactor = 0.5

// AdjustForFinancialTerms shifts a base sentiment score by the density of
// bearish and bullish crypto phrases in the text. Density is normalized by
// the square root of the word count so short posts cannot saturate the score.
// The result is clamped to [-1, 1].
func AdjustForFinancialTerms(text string, score float64) float64 {
	lower := strings.ToLower(text)
	wordCount := len(strings.Fields(lower))
	if wordCount == 0 {
		return score
	}

	negMatches, posMatches := 0, 0
	for _, p := range bearishPatterns {
		if strings.Contains(lower, p) {
			negMatches++
		}
	}
	for _, p := range bullishPatterns {
		if strings.Contains(lower, p) {
			posMatches++
		}
	}

	scale := math.Sqrt(float64(wordCount))
	score -= float64(negMatches) / scale * adjustmentFactor
	score += float64(posMatches) / scale * adjustmentFactor

	// Dollar losses ("-$2.3M") read as strongly negative.
	if strings.Contains(text, "-") && strings.Contains(text, "$") {
		score -= 0.2
	}

	return clamp(score)
}

func clamp(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
