package checklist

// Built-in question sets. standard10 is the original day-trade entry list;
// extended16 appends setup-quality items plus a risk-management tail whose
// "no" answers veto the entry regardless of score.

var standard10Questions = []string{
	"1. Have at least 10 minutes passed since the open? (Y/N)",
	"2. Did the stock open with a gap of 8% or less? (Y/N)",
	"3. Is the sector moving, or is per-minute turnover above your volume bar? (Y/N)",
	"4. Is the daily chart at a new high or breaking out of a base? (Y/N)",
	"5. Did heavy 1-minute volume print at least twice? (Y/N)",
	"6. Is this NOT a stock that spiked 10%+ within 3 minutes of breakout? (Y/N)",
	"7. Has a base formed on the 1-minute chart? (Y/N)",
	"8. Is the 1-minute chart free of repeated spike/dump swings? (Y/N)",
	"9. Is the pullback from the recent high smaller than 4.5%? (Y/N)",
	"10. Is there a genuine positive catalyst? (Y/N)",
}

var extended16Questions = []string{
	"1. Have at least 10 minutes passed since the open? (Y/N)",
	"2. Did the stock open with a gap of 8% or less? (Y/N)",
	"3. Is the sector moving, or is per-minute turnover above your volume bar? (Y/N)",
	"4. Is the daily chart at a new high or breaking out of a base? (Y/N)",
	"5. Did heavy 1-minute volume print at least twice? (Y/N)",
	"6. Is this NOT a stock that spiked 10%+ within 3 minutes of breakout? (Y/N)",
	"7. Has a base formed on the 1-minute chart? (Y/N)",
	"8. Is the 1-minute chart free of repeated spike/dump swings? (Y/N)",
	"9. Is the pullback from the recent high smaller than 4.5%? (Y/N)",
	"10. Is there a genuine positive catalyst? (Y/N)",
	"11. Does the spread allow a clean fill at your size? (Y/N)",
	"12. Is your stop-loss level written down before entry? (Y/N)",
	"13. Is the position sized within your per-trade risk limit? (Y/N)",
	"14. Are you within your daily loss limit? (Y/N)",
	"15. Are you entering on a plan, not on FOMO? (Y/N)",
	"16. Will you be able to watch the position until your exit? (Y/N)",
}

// Indices 11..15 (questions 12..16) form the risk-management tail.
var extended16RiskCritical = []int{11, 12, 13, 14, 15}
