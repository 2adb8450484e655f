package cronjob

import (
	"time"

	"github.com/robfig/cron/v3"
)

var _cj *cron.Cron

func init() {
	// Cron runs in UTC, the readings table stores UTC timestamps
	_cj = cron.New(cron.WithLocation(time.UTC))
	_cj.Start()
}

func GetCJ() *cron.Cron {
	return _cj
}

func StopCJ() {
	_cj.Stop()
}
