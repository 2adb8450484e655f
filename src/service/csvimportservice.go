package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	config "github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/circuitbreaker"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/log"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/mysql"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/toml"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/entity"
	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/src/tools"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CsvImportServiceImpl loads hourly-readings CSV files
// (date,startTime,consumptionAmount,productionAmount,hourlyPrice, empty field
// = null) into electricity_data. One instance per import job.
type CsvImportServiceImpl struct {
	ctx         context.Context
	opts        *ImportOptions
	concurrency int
	jobErrors   []ImportRowError
	errMu       sync.Mutex
	jobID       int64
	jobPath     string
}

type ImportRowError struct {
	Row    entity.ElectricityDataEntity
	CsvRow []string
	Err    error
}

type ImportOptions struct {
	BatchSize     int           // rows per DB batch
	InsertTimeout time.Duration // timeout per DB insert
	ParseLocation *time.Location
}

func DefaultImportOptions() *ImportOptions {
	return &ImportOptions{
		BatchSize:     toml.GetConfig().Import.Batchsize,
		InsertTimeout: 30 * time.Second,
		ParseLocation: time.UTC,
	}
}

func NewCsvImportService(ctx context.Context, concurrency int, opts *ImportOptions, jobID int64, jobPath string) *CsvImportServiceImpl {
	if opts == nil {
		opts = DefaultImportOptions()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &CsvImportServiceImpl{
		ctx:         ctx,
		opts:        opts,
		concurrency: concurrency,
		jobID:       jobID,
		jobPath:     jobPath,
	}
}

func (p *CsvImportServiceImpl) checkContextCancelled() error {
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	default:
		return nil
	}
}

// ProcessFileEntry runs the full import for one file.
func (p *CsvImportServiceImpl) ProcessFileEntry(filePath string) error {
	log.Logger.Info("Entry to import file", zap.String("filePath", filePath))

	if filepath.Ext(strings.ToLower(filePath)) != ".csv" {
		return fmt.Errorf("wrong file type, only csv allowed")
	}

	if err := mysql.EnableBulkOptimizations(); err != nil {
		log.Logger.Warn("Failed to enable bulk optimizations", zap.Error(err))
	}
	defer func() {
		if err := mysql.DisableBulkOptimizations(); err != nil {
			log.Logger.Warn("Failed to restore database settings", zap.Error(err))
		}
	}()

	err := p.RunPipeline(filePath)
	log.Logger.Info("import pipeline finished", zap.String("file", filePath), zap.Error(err))
	return err
}

// RunPipeline streams the CSV through reader -> batcher -> writer pool.
func (p *CsvImportServiceImpl) RunPipeline(filePath string) error {
	rows := make(chan entity.ElectricityDataEntity, p.opts.BatchSize*2)
	batches := make(chan []entity.ElectricityDataEntity, p.concurrency*2)

	var wg sync.WaitGroup
	var readErr error

	// 1. CSV reader goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := p.ParseCsvToChannel(filePath, rows); err != nil {
			log.Logger.Error("csv parsing failed", zap.String("file", filePath), zap.Error(err))
			readErr = err
		}
		close(rows)
	}()

	// 2. Batcher goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		batch := make([]entity.ElectricityDataEntity, 0, p.opts.BatchSize)
		for row := range rows {
			batch = append(batch, row)
			if len(batch) >= p.opts.BatchSize {
				copyBatch := make([]entity.ElectricityDataEntity, len(batch))
				copy(copyBatch, batch)
				batches <- copyBatch
				batch = batch[:0]
			}
		}
		if len(batch) > 0 {
			batches <- batch
		}
		close(batches)
	}()

	// 3. DB writer pool
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for batch := range batches {
				ctx, cancel := context.WithTimeout(p.ctx, p.opts.InsertTimeout)
				db := mysql.GetDB().WithContext(ctx)
				if err := p.insertBatchWithIsolation(db, batch); err != nil {
					log.Logger.Error("DB insert failed", zap.Int("worker", workerID), zap.Int("rows", len(batch)), zap.Error(err))
				}
				cancel()
			}
		}(i)
	}

	wg.Wait()

	if err := p.StoreAllErrors(); err != nil {
		log.Logger.Error("storing import errors failed", zap.Error(err))
	}
	return readErr
}

// ParseCsvToChannel parses the file and sends one entity per data row. A
// header line starting with "date" is skipped; rows that fail to parse are
// collected, they never abort the file.
func (p *CsvImportServiceImpl) ParseCsvToChannel(filePath string, out chan<- entity.ElectricityDataEntity) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open csv %s: %w", filePath, err)
	}
	defer f.Close()

	csvr := csv.NewReader(bufio.NewReader(f))
	csvr.TrimLeadingSpace = true
	csvr.LazyQuotes = true
	csvr.FieldsPerRecord = -1

	first := true
	for {
		if err := p.checkContextCancelled(); err != nil {
			return err
		}

		fields, err := csvr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("csv read: %w", err)
		}
		if len(fields) == 0 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(fields[0]), "date") {
				continue
			}
		}

		row, err := parseReadingRow(fields, p.opts.ParseLocation)
		if err != nil {
			p.addErrorRowCSV(fields, err)
			continue
		}
		out <- row
	}
}

// parseReadingRow builds an entity from one CSV line. startTime may be a bare
// clock time (combined with the date column) or a full timestamp; an empty
// metric field becomes null.
func parseReadingRow(fields []string, loc *time.Location) (entity.ElectricityDataEntity, error) {
	if len(fields) < 5 {
		return entity.ElectricityDataEntity{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(fields[0]), loc)
	if err != nil {
		return entity.ElectricityDataEntity{}, fmt.Errorf("bad date %q: %w", fields[0], err)
	}

	rawStart := strings.TrimSpace(fields[1])
	var start time.Time
	if t, clockErr := time.ParseInLocation(hourLayout, rawStart, loc); clockErr == nil {
		start = date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
	} else if t, tsErr := time.ParseInLocation("2006-01-02 15:04:05", rawStart, loc); tsErr == nil {
		start = t
	} else {
		return entity.ElectricityDataEntity{}, fmt.Errorf("bad startTime %q", rawStart)
	}

	consumption, err := parseNullableFloat(fields[2])
	if err != nil {
		return entity.ElectricityDataEntity{}, fmt.Errorf("bad consumption %q: %w", fields[2], err)
	}
	production, err := parseNullableFloat(fields[3])
	if err != nil {
		return entity.ElectricityDataEntity{}, fmt.Errorf("bad production %q: %w", fields[3], err)
	}
	price, err := parseNullableFloat(fields[4])
	if err != nil {
		return entity.ElectricityDataEntity{}, fmt.Errorf("bad price %q: %w", fields[4], err)
	}

	return entity.ElectricityDataEntity{
		Id:                tools.NewUuid(),
		Date:              date,
		StartTime:         start,
		ConsumptionAmount: consumption,
		ProductionAmount:  production,
		HourlyPrice:       price,
	}, nil
}

func parseNullableFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// insertBatchWithIsolation upserts a batch; on failure it retries row by row
// so one bad row does not sink the batch.
func (p *CsvImportServiceImpl) insertBatchWithIsolation(db *gorm.DB, batch []entity.ElectricityDataEntity) error {
	if len(batch) == 0 {
		return nil
	}
	if err := p.attemptBatchInsert(db, batch); err == nil {
		return nil
	}
	log.Logger.Warn("batch insert failed, attempting row isolation", zap.Int("batch_size", len(batch)))

	failed := 0
	for i := range batch {
		if err := p.attemptBatchInsert(db, batch[i:i+1]); err != nil {
			failed++
			p.addErrorRow(batch[i], err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("batch had %d failed rows out of %d total", failed, len(batch))
	}
	return nil
}

func (p *CsvImportServiceImpl) attemptBatchInsert(db *gorm.DB, batch []entity.ElectricityDataEntity) error {
	return config.RetryWithCircuitBreaker(db, func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "start_time"}},
			DoUpdates: clause.AssignmentColumns([]string{"consumption_amount", "production_amount", "hourly_price", "updated_at"}),
		}).CreateInBatches(batch, p.opts.BatchSize)
		return res.Error
	}, 3)
}

func (p *CsvImportServiceImpl) addErrorRow(row entity.ElectricityDataEntity, err error) {
	p.errMu.Lock()
	p.jobErrors = append(p.jobErrors, ImportRowError{Row: row, Err: err})
	p.errMu.Unlock()
}

func (p *CsvImportServiceImpl) addErrorRowCSV(fields []string, err error) {
	p.errMu.Lock()
	p.jobErrors = append(p.jobErrors, ImportRowError{CsvRow: fields, Err: err})
	p.errMu.Unlock()
}

// StoreAllErrors persists collected row failures to import_errors.
func (p *CsvImportServiceImpl) StoreAllErrors() error {
	p.errMu.Lock()
	jobErrors := p.jobErrors
	p.jobErrors = nil
	p.errMu.Unlock()

	if len(jobErrors) == 0 {
		return nil
	}

	records := make([]entity.ImportErrorEntity, 0, len(jobErrors))
	for _, rowErr := range jobErrors {
		var dataJSON json.RawMessage
		var err error
		if len(rowErr.CsvRow) > 0 {
			dataJSON, err = json.Marshal(rowErr.CsvRow)
		} else {
			dataJSON, err = json.Marshal(rowErr.Row)
		}
		if err != nil {
			log.Logger.Warn("failed to marshal import error row", zap.Error(err))
			continue
		}
		records = append(records, entity.ImportErrorEntity{
			JobID:    p.jobID,
			Data:     dataJSON,
			FilePath: p.jobPath,
			Error:    rowErr.Err.Error(),
		})
	}
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(p.ctx, p.opts.InsertTimeout)
	defer cancel()
	db := mysql.GetDB().WithContext(ctx)

	err := config.RetryWithCircuitBreaker(db, func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, 100).Error
	}, 3)
	if err != nil {
		return err
	}

	log.Logger.Info("Stored import errors", zap.Int("error_count", len(records)))
	return nil
}
