package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/akeren/event-rsvp/config"
	"github.com/akeren/event-rsvp/domain/submission"
	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/akeren/event-rsvp/pkg/constants"
)

var exportHeader = []string{"id", "createdAt", "submitted", "name", "email", "code", "veg", "nonVeg"}

func runExport(logger *log.Logger, args []string) error {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	out := flags.String("out", "", "write to this file instead of stdout")
	sortColumn := flags.String("sort", "", "column to sort by (createdAt, name, email, code, veg, nonVeg)")
	order := flags.String("order", "", "asc or desc")
	if err := flags.Parse(args); err != nil {
		return err
	}

	spec, err := rsvp.ParseSortSpec(*sortColumn, *order)
	if err != nil {
		return err
	}

	formatter, err := config.NewRSVPConfig().NewFormatter()
	if err != nil {
		return err
	}

	db, err := config.NewDatabase(logger, &config.DBConfig{})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer config.CloseDatabase(db, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	records, err := submission.NewSubmissionRepository(db).FindAll(ctx)
	if err != nil {
		return err
	}

	rows := make([]rsvp.Submission, 0, len(records))
	for _, record := range records {
		rows = append(rows, submission.ToRSVPSubmission(record))
	}

	sorted := rsvp.Sort(rows, spec)
	if *out == "" {
		err = writeCSV(os.Stdout, sorted, formatter)
	} else {
		err = writeCSVFile(*out, sorted, formatter)
	}
	if err != nil {
		return err
	}

	logger.Info("Submissions exported", "count", len(rows), "out", *out)
	return nil
}

// writeCSVFile reports a failed close, since that is where buffered data reaches the disk.
func writeCSVFile(path string, rows []rsvp.Submission, formatter *rsvp.Formatter) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := writeCSV(f, rows, formatter); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func writeCSV(w io.Writer, rows []rsvp.Submission, formatter *rsvp.Formatter) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.ID,
			r.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
			formatter.Timestamp(r.CreatedAt),
			r.Name,
			r.Email,
			r.Code,
			strconv.Itoa(r.Veg),
			strconv.Itoa(r.NonVeg),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
