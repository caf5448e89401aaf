package repository

import (
	"errors"
	"strings"

	domainRepo "github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/pkg/pagination"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const dialectPostgres = "postgres"

// turkishFolds lower-cases the Turkish capitals SQLite's LOWER leaves alone
// and collapses the four i variants into a plain "i". Column expressions and
// search terms go through the same folding.
var turkishFolds = [][2]string{
	{"İ", "i"}, {"I", "i"}, {"ı", "i"},
	{"Ş", "ş"}, {"Ğ", "ğ"}, {"Ü", "ü"}, {"Ö", "ö"}, {"Ç", "ç"},
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func foldColumn(col string) string {
	expr := col
	for _, f := range turkishFolds {
		expr = "REPLACE(" + expr + ", '" + f[0] + "', '" + f[1] + "')"
	}
	return "LOWER(" + expr + ")"
}

func foldTerm(term string) string {
	lowered := cases.Lower(language.Turkish).String(term)
	return strings.ReplaceAll(lowered, "ı", "i")
}

// SearchScope matches term against any of the given columns, ignoring case
// (Turkish rules included). LIKE wildcards in term match literally.
func SearchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + likeEscaper.Replace(foldTerm(term)) + "%"

		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			conds[i] = foldColumn(col) + ` LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// DateRangeScope limits column to the inclusive range r
func DateRangeScope(column string, r domainRepo.DateRange) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.From != nil {
			db = db.Where(column+" >= ?", *r.From)
		}
		if r.To != nil {
			db = db.Where(column+" <= ?", *r.To)
		}
		return db
	}
}

// PaginateScope applies offset and limit; nil params return every row
func PaginateScope(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// periodExpr formats a date column as YYYY-MM or YYYY for the active dialect
func periodExpr(db *gorm.DB, column string, g domainRepo.PeriodGranularity) string {
	if db.Dialector.Name() == dialectPostgres {
		if g == domainRepo.PeriodYear {
			return "to_char(" + column + ", 'YYYY')"
		}
		return "to_char(" + column + ", 'YYYY-MM')"
	}
	if g == domainRepo.PeriodYear {
		return "strftime('%Y', " + column + ")"
	}
	return "strftime('%Y-%m', " + column + ")"
}

// translateError maps unique violations onto ErrDuplicateKey
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateKey
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key") {
		return domainRepo.ErrDuplicateKey
	}
	return err
}
