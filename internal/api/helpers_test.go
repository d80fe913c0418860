package api

import (
	"strconv"
	"time"

	"github.com/fastprodman/pointledger/internal/repos/spends"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func spendRecord(userID, rewardID int64, at time.Time) spends.Record {
	return spends.Record{UserID: userID, RewardID: rewardID, CreatedAt: at}
}
