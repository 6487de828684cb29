package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	sizeOptionName     = "Size"
	outOfStockMarker   = "OUT OF STOCK"
	defaultDescription = "No description available."
)

var (
	quoteRegex      = regexp.MustCompile(`['"]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// metafieldSpec maps a feed column onto a product metafield
type metafieldSpec struct {
	column    string
	namespace string
	key       string
	fieldType string
	titleCase bool
}

var metafieldSpecs = []metafieldSpec{
	{domain.ColumnMaterial, "category", "details", "multi_line_text_field", false},
	{domain.ColumnCountry, "custom", "made_in", "single_line_text_field", false},
	{domain.ColumnColor, "custom", "color", "single_line_text_field", false},
	{domain.ColumnColorSupplier, "custom", "color_detail", "single_line_text_field", false},
	{domain.ColumnSeason, "custom", "season", "single_line_text_field", false},
	{domain.ColumnYear, "custom", "year", "single_line_text_field", false},
	{domain.ColumnSKU, "custom", "supplier_sku", "single_line_text_field", false},
	{domain.ColumnSizingStandard, "custom", "size_info", "single_line_text_field", false},
	{domain.ColumnFit, "custom", "fit", "single_line_text_field", false},
	{domain.ColumnGender, "custom", "gender", "single_line_text_field", true},
	{domain.ColumnDepartment, "department", "product", "single_line_text_field", false},
}

// ProductBuilder turns a feed row into a draft product for creation
type ProductBuilder struct {
	titler cases.Caser
}

// NewProductBuilder creates a product builder
func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{titler: cases.Title(language.English)}
}

// OutOfStock reports whether the feed marks the whole product as unavailable
func (b *ProductBuilder) OutOfStock(rec domain.InputRecord) bool {
	return strings.EqualFold(rec.Get(domain.ColumnInventory), outOfStockMarker)
}

// Build converts rec into a ProductDraft. A missing title is a validation failure.
func (b *ProductBuilder) Build(rec domain.InputRecord) (domain.ProductDraft, error) {
	rawTitle := rec.Get(domain.ColumnTitle)
	if rawTitle == "" {
		return domain.ProductDraft{}, domain.NewValidationError(domain.ColumnTitle, "missing required value")
	}

	title := b.FormatTitle(rawTitle)
	draft := domain.ProductDraft{
		Title:           title,
		Handle:          Handle(title),
		DescriptionHTML: rec.Get(domain.ColumnDescription),
		Vendor:          rec.Get(domain.ColumnVendor),
		ProductType:     rec.Get(domain.ColumnCategory),
		Tags:            splitNonEmpty(rec.Get(domain.ColumnTags)),
		OptionName:      sizeOptionName,
	}
	if draft.DescriptionHTML == "" {
		draft.DescriptionHTML = defaultDescription
	}

	variants, err := b.buildVariants(rec)
	if err != nil {
		return domain.ProductDraft{}, err
	}
	draft.Variants = variants

	for _, src := range splitNonEmpty(rec.Get(domain.ColumnImages)) {
		draft.Images = append(draft.Images, domain.ProductImage{Src: src, Alt: title})
	}

	for _, spec := range metafieldSpecs {
		value := rec.Get(spec.column)
		if !meaningful(value) {
			continue
		}
		if spec.titleCase {
			value = b.titler.String(value)
		}
		draft.Metafields = append(draft.Metafields, domain.Metafield{
			Namespace: spec.namespace,
			Key:       spec.key,
			Value:     value,
			Type:      spec.fieldType,
		})
	}

	return draft, nil
}

// FormatTitle strips quotes and title-cases every word
func (b *ProductBuilder) FormatTitle(raw string) string {
	cleaned := quoteRegex.ReplaceAllString(raw, "")
	cleaned = whitespaceRegex.ReplaceAllString(strings.TrimSpace(cleaned), " ")
	return b.titler.String(cleaned)
}

// Handle derives the URL handle from a formatted title
func Handle(title string) string {
	return whitespaceRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}

func (b *ProductBuilder) buildVariants(rec domain.InputRecord) ([]domain.VariantDraft, error) {
	price, err := optionalDecimal(rec, domain.ColumnRetailPrice)
	if err != nil {
		return nil, err
	}
	compareAt, err := optionalDecimal(rec, domain.ColumnCompareAtPrice)
	if err != nil {
		return nil, err
	}
	cost, err := optionalDecimal(rec, domain.ColumnUnitCost)
	if err != nil {
		return nil, err
	}

	sku := rec.Get(domain.ColumnSupplierSKU)
	if sku == "" {
		sku = rec.SKU()
	}

	sizes := splitList(rec.Get(domain.ColumnSize))
	quantities := splitList(rec.Get(domain.ColumnQty))

	variants := make([]domain.VariantDraft, 0, len(sizes))
	seen := make(map[string]struct{}, len(sizes))
	for i, size := range sizes {
		if size == "" {
			continue
		}
		if _, dup := seen[size]; dup {
			continue
		}
		seen[size] = struct{}{}

		qty := 0
		if i < len(quantities) {
			if n, err := strconv.Atoi(quantities[i]); err == nil && n > 0 {
				qty = n
			}
		}
		variants = append(variants, domain.VariantDraft{
			Size:           size,
			SKU:            sku,
			Quantity:       qty,
			Price:          price,
			CompareAtPrice: compareAt,
			Cost:           cost,
		})
	}

	if len(variants) == 0 {
		return nil, domain.NewValidationError(domain.ColumnSize, "no sizes to create")
	}
	return variants, nil
}

func optionalDecimal(rec domain.InputRecord, column string) (*decimal.Decimal, error) {
	raw := rec.Get(column)
	if raw == "" {
		return nil, nil
	}
	d, err := parseDecimal(raw)
	if err != nil {
		return nil, domain.NewValidationError(column, fmt.Sprint(err))
	}
	return &d, nil
}

// meaningful filters placeholder values the feed uses for "no data"
func meaningful(v string) bool {
	return v != "" && v != "0" && v != "-"
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range splitList(s) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
