// =============================================================================
// CTOS Report Extractor - Processing Pipeline
// =============================================================================
//
// Orchestrates the full dataflow: input rows -> fragment de-duplication
// -> per-key combination -> sanitization -> best-candidate selection ->
// classification -> extraction -> projection -> workbook. Accounts are
// processed sequentially; extraction is pure per account, so one broken
// account is caught, logged and skipped without touching the rest of the
// batch.
//
// The display path and the export path classify documents independently
// with their own signature sets, matching the historical behavior the
// two paths must preserve.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/ctos-report-extractor/internal/classifier"
	"github.com/ginjaninja78/ctos-report-extractor/internal/combiner"
	"github.com/ginjaninja78/ctos-report-extractor/internal/config"
	"github.com/ginjaninja78/ctos-report-extractor/internal/extractor"
	"github.com/ginjaninja78/ctos-report-extractor/internal/projector"
	"github.com/ginjaninja78/ctos-report-extractor/internal/sanitizer"
	"github.com/ginjaninja78/ctos-report-extractor/internal/types"
	"github.com/ginjaninja78/ctos-report-extractor/internal/xlsxio"
	"github.com/ginjaninja78/ctos-report-extractor/pkg/utils"
)

// ProgressFunc receives coarse progress updates: every N accounts and
// once at completion.
type ProgressFunc func(done, total int)

// AccountError is one failed account in a batch run.
type AccountError struct {
	Account string
	Message string
}

// Result is the outcome of an export run.
type Result struct {
	// InputRows is the number of data rows read from the workbook.
	InputRows int

	// Accounts is the number of logical accounts processed.
	Accounts int

	// Failed lists accounts whose extraction failed. Their rows are
	// absent from the workbook; everything else exported normally.
	Failed []AccountError

	// Sheets holds the projected rows per sheet name.
	Sheets map[string][]projector.Row

	// OutputFile is the workbook path, empty on a dry run.
	OutputFile string

	// ErrorLog is the per-account error log path, empty when no
	// account failed or on a dry run.
	ErrorLog string

	// Elapsed is the total processing time.
	Elapsed time.Duration
}

// Pipeline wires the extraction engine together. One instance serves
// any number of runs.
type Pipeline struct {
	cfg    *config.Config
	log    *zap.Logger
	walker *extractor.Walker
}

// New builds a pipeline.
func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, walker: extractor.New(log)}
}

// BuildDocuments turns raw input rows into one sanitized representative
// document per logical account. The returned slice preserves first-seen
// account order.
func (p *Pipeline) BuildDocuments(rows []xlsxio.InputRow, sig classifier.Signature) ([]string, map[string]string) {
	fragments := make([]types.Fragment, 0, len(rows))
	for _, row := range rows {
		fragments = append(fragments, types.Fragment{
			Account: row.Account,
			Seq:     row.Seq,
			XML:     row.XML,
		})
	}

	fragments = combiner.Dedupe(fragments)
	rawOrder, rawGroups := combiner.GroupByAccount(fragments)

	// Raw keys collapse onto logical accounts; each raw key contributes
	// one sanitized candidate document to its logical account.
	var logicalOrder []string
	candidates := make(map[string][]string)
	for _, rawKey := range rawOrder {
		logical := types.NormalizeAccountKey(rawKey)
		if logical == "" {
			continue
		}
		if _, seen := candidates[logical]; !seen {
			logicalOrder = append(logicalOrder, logical)
		}
		combined := combiner.Combine(rawGroups[rawKey])
		candidates[logical] = append(candidates[logical], sanitizer.Sanitize(combined))
	}

	docs := make(map[string]string, len(logicalOrder))
	for _, account := range logicalOrder {
		docs[account] = combiner.SelectBest(candidates[account], sig, p.log)
	}
	return logicalOrder, docs
}

// Display extracts the flattened field/value listing for one account,
// using the display-path signature set.
func (p *Pipeline) Display(rows []xlsxio.InputRow, account string) (types.RecordList, error) {
	accounts, docs := p.BuildDocuments(rows, classifier.DisplaySignature)
	doc, ok := docs[account]
	if !ok {
		return nil, fmt.Errorf("account %q not found among %d accounts", account, len(accounts))
	}
	records, err := p.safeExtract(doc)
	if err != nil {
		return types.RecordList{{Field: "Error", Value: err.Error()}}, nil
	}
	return records, nil
}

// DisplayAll extracts every account's listing in first-seen order.
func (p *Pipeline) DisplayAll(rows []xlsxio.InputRow) ([]string, map[string]types.RecordList) {
	accounts, docs := p.BuildDocuments(rows, classifier.DisplaySignature)
	out := make(map[string]types.RecordList, len(accounts))
	for _, account := range accounts {
		records, err := p.safeExtract(docs[account])
		if err != nil {
			records = types.RecordList{{Field: "Error", Value: err.Error()}}
		}
		out[account] = records
	}
	return accounts, out
}

// Export runs the batch export: every account extracted, projected and
// written to a single multi-sheet workbook containing both the
// old-format and new-format sheet groups. Accounts are emitted in
// sorted key order; rows within a sheet keep per-account order.
func (p *Pipeline) Export(rows []xlsxio.InputRow, inputPath string, dryRun bool, progress ProgressFunc) (*Result, error) {
	start := time.Now()

	accounts, docs := p.BuildDocuments(rows, classifier.ExportSignature)
	sorted := make([]string, len(accounts))
	copy(sorted, accounts)
	sort.Strings(sorted)

	schemas := exportSchemas()
	sheets := make(map[string][]projector.Row, len(schemas))
	for _, schema := range schemas {
		sheets[schema.Name] = []projector.Row{}
	}

	result := &Result{InputRows: len(rows), Accounts: len(sorted), Sheets: sheets}

	for i, account := range sorted {
		doc := docs[account]
		variant := classifier.ExportSignature.Classify(doc)

		records, err := p.safeExtract(doc)
		if err != nil {
			p.log.Warn("account extraction failed",
				zap.String("account", account), zap.Error(err))
			result.Failed = append(result.Failed, AccountError{
				Account: account, Message: err.Error(),
			})
			continue
		}

		for name, projRows := range projector.Project(account, records, variant) {
			sheets[name] = append(sheets[name], projRows...)
		}

		if progress != nil && (i+1)%p.cfg.ProgressEvery == 0 {
			progress(i+1, len(sorted))
		}
	}
	if progress != nil {
		progress(len(sorted), len(sorted))
	}

	if !dryRun {
		if err := p.writeOutputs(result, inputPath, start); err != nil {
			return result, err
		}
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// writeOutputs saves the workbook and, when accounts failed, the error
// log beside it.
func (p *Pipeline) writeOutputs(result *Result, inputPath string, now time.Time) error {
	if err := utils.EnsureDir(p.cfg.ExportDir); err != nil {
		return err
	}

	name := utils.OutputFileName(p.cfg.ExportNameFormat, utils.Stem(inputPath), now)
	path := filepath.Join(p.cfg.ExportDir, name)
	if err := xlsxio.WriteWorkbook(path, result.Sheets, exportSchemas()); err != nil {
		return err
	}
	result.OutputFile = path
	p.log.Info("workbook written", zap.String("path", path))

	if len(result.Failed) > 0 {
		entries := make([]utils.ErrorLogEntry, len(result.Failed))
		for i, f := range result.Failed {
			entries[i] = utils.ErrorLogEntry{Account: f.Account, Message: f.Message}
		}
		logPath, err := utils.WriteErrorLog(entries, p.cfg.ExportDir, now)
		if err != nil {
			return err
		}
		result.ErrorLog = logPath
	}
	return nil
}

// exportSchemas returns the full sheet set of an export workbook: the
// old-format sheets followed by the new-format sheets.
func exportSchemas() []projector.SheetSchema {
	schemas := make([]projector.SheetSchema, 0, len(projector.OldSheets)+len(projector.NewSheets))
	schemas = append(schemas, projector.OldSheets...)
	schemas = append(schemas, projector.NewSheets...)
	return schemas
}

// safeExtract guards one account's extraction. The walker itself never
// returns an error, but an unexpected node shape deep in a handler must
// not abort the batch, so panics are converted to per-account errors.
func (p *Pipeline) safeExtract(doc string) (records types.RecordList, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extraction failed: %v", r)
		}
	}()
	return p.walker.Extract(doc), nil
}
