package tools

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"time"

	uuid "github.com/satori/go.uuid"
)

func NewUuid() string {
	id := uuid.NewV4()
	return id.String()
}

// GenerateSampleCSV writes a synthetic hourly-readings file for local runs:
// 24 rows per day with date,startTime,consumption,production,price columns.
// Every third day gets a negative-price stretch in the early hours and a few
// metric fields are left empty to mimic gaps in the real dataset.
func GenerateSampleCSV(fileName string, startDate time.Time, days int) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{"date", "startTime", "consumptionAmount", "productionAmount", "hourlyPrice"})

	for d := 0; d < days; d++ {
		day := startDate.AddDate(0, 0, d)
		negatives := 0
		if d%3 == 0 {
			negatives = rand.Intn(4) + 1 // 1..4 consecutive negative hours
		}
		for h := 0; h < 24; h++ {
			consumption := fmt.Sprintf("%.2f", 200+rand.Float64()*400)
			production := fmt.Sprintf("%.3f", rand.Float64()*50)
			price := fmt.Sprintf("%.4f", rand.Float64()*0.3)
			if h >= 2 && h < 2+negatives {
				price = fmt.Sprintf("-%.4f", 0.01+rand.Float64()*0.1)
			}
			if rand.Float32() < 0.02 {
				production = "" // gap in the source data
			}
			w.Write([]string{
				day.Format("2006-01-02"),
				fmt.Sprintf("%02d:00", h),
				consumption,
				production,
				price,
			})
		}
	}
	return nil
}
