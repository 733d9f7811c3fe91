package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"student-admin-backend/internal/domain"
	"student-admin-backend/internal/logger"
	"student-admin-backend/internal/mapper"
	"student-admin-backend/internal/model"
	"student-admin-backend/internal/repository"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// importColumns is the header every import file must start with.
var importColumns = []string{
	"FirstName", "LastName", "DateOfBirth", "Email", "Mobile", "Gender", "PhysicalAddress", "PostalAddress",
}

type ProgressInfo struct {
	FileName     string    `json:"fileName"`
	TotalRecords int       `json:"totalRecords"`
	Processed    int       `json:"processed"`
	Imported     int       `json:"imported"`
	Failed       int       `json:"failed"`
	Status       string    `json:"status"` // "processing", "completed", "error"
	Error        string    `json:"error,omitempty"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

// RequestValidator checks a decoded row before it is saved.
type RequestValidator interface {
	Validate(ctx context.Context, req any) error
}

// ImportService loads students from CSV files and tracks per-file progress.
type ImportService struct {
	repo      repository.StudentRepository
	validator RequestValidator
	batchSize int

	fileProgressMap   map[string]*ProgressInfo
	fileProgressLock  sync.RWMutex
	progressListeners map[chan ProgressInfo]bool
	listenerLock      sync.RWMutex

	workerSemaphore      chan struct{} // caps workers across all files
	maxConcurrentWorkers int
}

func NewImportService(repo repository.StudentRepository, validator RequestValidator, batchSize int) *ImportService {
	maxWorkers := runtime.NumCPU() * 2
	if batchSize <= 0 {
		batchSize = 500
	}

	return &ImportService{
		repo:                 repo,
		validator:            validator,
		batchSize:            batchSize,
		fileProgressMap:      make(map[string]*ProgressInfo),
		progressListeners:    make(map[chan ProgressInfo]bool),
		workerSemaphore:      make(chan struct{}, maxWorkers),
		maxConcurrentWorkers: maxWorkers,
	}
}

func (s *ImportService) RegisterProgressListener(ch chan ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	s.progressListeners[ch] = true
}

func (s *ImportService) UnregisterProgressListener(ch chan ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	delete(s.progressListeners, ch)
}

// BroadcastProgress sends a copy to every listener that is ready to receive.
func (s *ImportService) BroadcastProgress(progress ProgressInfo) {
	s.listenerLock.RLock()
	defer s.listenerLock.RUnlock()

	for listener := range s.progressListeners {
		select {
		case listener <- progress:
		default:
		}
	}
}

// updateProgress adds the deltas reported by a worker.
func (s *ImportService) updateProgress(fileName string, processed, imported, failed int) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		progress.Processed += processed
		progress.Imported += imported
		progress.Failed += failed
		if progress.TotalRecords > 0 && progress.Processed > progress.TotalRecords {
			progress.Processed = progress.TotalRecords
		}
		s.BroadcastProgress(*progress)
	}
}

func (s *ImportService) updateProgressError(fileName string, errorMsg string) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		progress.Status = StatusError
		progress.Error = errorMsg
		progress.EndTime = time.Now()
		s.BroadcastProgress(*progress)
	}
}

func (s *ImportService) GetFileProgress(fileName string) *ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		copyProgress := *progress
		return &copyProgress
	}
	return nil
}

// GetAllFileProgress returns copies ordered by start time.
func (s *ImportService) GetAllFileProgress() []*ProgressInfo {
	s.fileProgressLock.RLock()
	result := make([]*ProgressInfo, 0, len(s.fileProgressMap))
	for _, progress := range s.fileProgressMap {
		copyProgress := *progress
		result = append(result, &copyProgress)
	}
	s.fileProgressLock.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].FileName < result[j].FileName
		}
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result
}

// ProcessCSV imports every row of the file at filePath. Progress is keyed by
// the file's base name.
func (s *ImportService) ProcessCSV(ctx context.Context, filePath string) error {
	fileName := filepath.Base(filePath)
	startTime := time.Now()

	s.fileProgressLock.Lock()
	s.fileProgressMap[fileName] = &ProgressInfo{
		FileName:  fileName,
		Status:    StatusProcessing,
		StartTime: startTime,
	}
	s.fileProgressLock.Unlock()

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		s.updateProgressError(fileName, "Failed to get file info: "+err.Error())
		return err
	}

	numWorkers := calculateWorkers(fileInfo.Size())
	logger.Info().Str("file", fileName).Int("workers", numWorkers).Int64("size", fileInfo.Size()).Msg("Starting student import")

	totalRecords, err := countRecords(filePath)
	if err != nil {
		s.updateProgressError(fileName, "Failed to count records: "+err.Error())
		return err
	}

	s.fileProgressLock.Lock()
	s.fileProgressMap[fileName].TotalRecords = totalRecords
	s.fileProgressLock.Unlock()

	genders, err := s.genderLookup(ctx)
	if err != nil {
		s.updateProgressError(fileName, "Failed to load genders: "+err.Error())
		return err
	}

	file, err := os.Open(filePath)
	if err != nil {
		s.updateProgressError(fileName, "Failed to open file: "+err.Error())
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil || !validHeader(header) {
		msg := "Invalid header, expected " + strings.Join(importColumns, ",")
		s.updateProgressError(fileName, msg)
		return errors.New(msg)
	}

	bufferSize := 1000
	if numWorkers > 10 {
		bufferSize = numWorkers * 100
	}

	recordCh := make(chan []string, bufferSize)
	var wg sync.WaitGroup
	seenEmails := sync.Map{}
	// set by the producer before recordCh closes
	var readErr error

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go s.worker(ctx, fileName, genders, recordCh, &seenEmails, &wg)
	}

	go func() {
		defer close(recordCh)
		for {
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.Warn().Err(err).Str("file", fileName).Msg("Skipping malformed CSV record")
				s.updateProgress(fileName, 1, 0, 1)
				continue
			}
			if err != nil {
				readErr = err
				return
			}
			select {
			case recordCh <- record:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		s.updateProgressError(fileName, "Import cancelled: "+err.Error())
		return err
	}
	if readErr != nil {
		s.updateProgressError(fileName, "Failed to read file: "+readErr.Error())
		return readErr
	}

	s.fileProgressLock.Lock()
	progress := s.fileProgressMap[fileName]
	progress.Status = StatusCompleted
	progress.EndTime = time.Now()
	progress.Processed = progress.TotalRecords
	final := *progress
	s.BroadcastProgress(final)
	s.fileProgressLock.Unlock()

	logger.Info().
		Str("file", fileName).
		Int("imported", final.Imported).
		Int("failed", final.Failed).
		Dur("elapsed", time.Since(startTime)).
		Msg("Student import completed")

	return nil
}

// calculateWorkers determines the number of workers based on file size.
func calculateWorkers(fileSize int64) int {
	cpus := runtime.NumCPU()

	switch {
	case fileSize < 1_000_000:
		return min(2, cpus)
	case fileSize < 10_000_000:
		return min(4, cpus)
	case fileSize < 100_000_000:
		return min(8, cpus)
	case fileSize < 1_000_000_000:
		return min(16, cpus)
	default:
		return cpus
	}
}

func (s *ImportService) worker(ctx context.Context, fileName string, genders map[string]model.Gender, recordCh <-chan []string, seenEmails *sync.Map, wg *sync.WaitGroup) {
	s.workerSemaphore <- struct{}{}
	defer func() {
		<-s.workerSemaphore
		wg.Done()
	}()

	var students []model.Student
	processed, failed := 0, 0

	flush := func() {
		imported, batchFailed := s.saveBatch(ctx, fileName, students)
		s.updateProgress(fileName, processed, imported, failed+batchFailed)
		students = nil
		processed, failed = 0, 0
	}

	for record := range recordCh {
		processed++

		req, err := parseRecord(record, genders)
		if err != nil {
			logger.Debug().Err(err).Str("file", fileName).Msg("Skipping invalid row")
			failed++
			continue
		}

		email := strings.ToLower(req.Email)
		if err := s.validator.Validate(ctx, req); err != nil {
			logger.Debug().Err(err).Str("file", fileName).Str("email", email).Msg("Skipping row that failed validation")
			failed++
			continue
		}

		if _, exists := seenEmails.LoadOrStore(email, true); exists {
			logger.Debug().Str("file", fileName).Str("email", email).Msg("Skipping duplicate email")
			failed++
			continue
		}

		students = append(students, mapper.StudentFromAddRequest(req))
		if len(students) >= s.batchSize {
			flush()
		}
	}

	flush()
}

// saveBatch reports how many students were imported and how many failed.
func (s *ImportService) saveBatch(ctx context.Context, fileName string, students []model.Student) (int, int) {
	if len(students) == 0 {
		return 0, 0
	}

	n, err := s.repo.AddStudents(ctx, students)
	if err != nil {
		logger.Error().Err(err).Str("file", fileName).Int("batch", len(students)).Msg("Error inserting batch")
		return 0, len(students)
	}
	return n, len(students) - n
}

func (s *ImportService) genderLookup(ctx context.Context) (map[string]model.Gender, error) {
	genders, err := s.repo.ListGenders(ctx)
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]model.Gender, len(genders))
	for _, g := range genders {
		lookup[strings.ToLower(g.Description)] = g
	}
	return lookup, nil
}

func parseRecord(record []string, genders map[string]model.Gender) (domain.AddStudentRequest, error) {
	if len(record) != len(importColumns) {
		return domain.AddStudentRequest{}, fmt.Errorf("expected %d fields, got %d", len(importColumns), len(record))
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	dob, err := time.Parse(time.DateOnly, record[2])
	if err != nil {
		return domain.AddStudentRequest{}, fmt.Errorf("invalid date of birth %q: %w", record[2], err)
	}

	mobile, err := strconv.ParseInt(record[4], 10, 64)
	if err != nil {
		return domain.AddStudentRequest{}, fmt.Errorf("invalid mobile %q: %w", record[4], err)
	}

	gender, ok := genders[strings.ToLower(record[5])]
	if !ok {
		return domain.AddStudentRequest{}, fmt.Errorf("unknown gender %q", record[5])
	}

	return domain.AddStudentRequest{
		FirstName:       record[0],
		LastName:        record[1],
		DateOfBirth:     dob,
		Email:           record[3],
		Mobile:          mobile,
		GenderID:        gender.ID,
		PhysicalAddress: record[6],
		PostalAddress:   record[7],
	}, nil
}

func validHeader(header []string) bool {
	if len(header) != len(importColumns) {
		return false
	}
	for i, col := range header {
		col = strings.TrimPrefix(strings.TrimSpace(col), "\ufeff")
		if !strings.EqualFold(col, importColumns[i]) {
			return false
		}
	}
	return true
}

func countRecords(filePath string) (int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// malformed rows still count, the import reports them as failed
	count := -1
	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			return max(count, 0), err
		}
		count++
	}
	return max(count, 0), nil
}
