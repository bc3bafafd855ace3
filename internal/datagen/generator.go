package datagen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/pgEdge/pgedge-olist-etl/internal/logging"
	"github.com/pgEdge/pgedge-olist-etl/internal/raw"
)

// OrphanCategory is a product category that is deliberately missing from the
// category translation file.
const OrphanCategory = "pc_gamer"

// Config configures a Generator.
type Config struct {
	// Orders is the number of orders to generate. Customers, products and
	// sellers scale from it.
	Orders int

	// Seed makes the output reproducible.
	Seed uint64

	// OutDir is where the CSV files are written.
	OutDir string

	// Force allows existing extracts in OutDir to be overwritten.
	Force bool
}

// ErrFileExists is returned when an extract is already present in OutDir
// and Force is not set.
var ErrFileExists = errors.New("extract already exists")

// DefaultConfig returns a small data set suitable for local runs.
func DefaultConfig() Config {
	return Config{
		Orders: 1000,
		Seed:   42,
		OutDir: filepath.Join("data", "raw"),
	}
}

// File describes one written extract.
type File struct {
	Table string
	Path  string
	Rows  int
}

// Generator produces a consistent set of Olist extracts.
type Generator struct {
	cfg   Config
	faker *Faker
}

type city struct {
	name  string
	state string
}

var cities = []city{
	{"São Paulo", "SP"},
	{"Rio de Janeiro", "RJ"},
	{"Belo Horizonte", "MG"},
	{"Brasília", "DF"},
	{"Curitiba", "PR"},
	{"Porto Alegre", "RS"},
	{"Florianópolis", "SC"},
	{"Goiânia", "GO"},
	{"Ribeirão Preto", "SP"},
	{"São José dos Campos", "SP"},
	{"Niterói", "RJ"},
	{"Maceió", "AL"},
}

var categories = [][2]string{
	{"beleza_saude", "health_beauty"},
	{"informatica_acessorios", "computers_accessories"},
	{"cama_mesa_banho", "bed_bath_table"},
	{"esporte_lazer", "sports_leisure"},
	{"moveis_decoracao", "furniture_decor"},
	{"utilidades_domesticas", "housewares"},
	{"relogios_presentes", "watches_gifts"},
	{"telefonia", "telephony"},
	{"brinquedos", "toys"},
	{"automotivo", "auto"},
}

var (
	orderStatuses = []string{"delivered", "shipped", "invoiced", "processing", "canceled", "unavailable"}
	statusWeights = []int{88, 4, 2, 2, 2, 2}

	paymentTypes   = []string{"credit_card", "boleto", "voucher", "debit_card"}
	paymentWeights = []int{74, 19, 5, 2}
)

var (
	periodStart = time.Date(2016, 9, 4, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2018, 9, 3, 0, 0, 0, 0, time.UTC)
)

// NewGenerator creates a generator.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg:   cfg,
		faker: NewFakerWithSeed(cfg.Seed),
	}
}

// dataset holds the generated rows for every extract.
type dataset struct {
	customers   []raw.CustomerRow
	geolocation []raw.GeolocationRow
	categories  []raw.CategoryRow
	sellers     []raw.SellerRow
	products    []raw.ProductRow
	orders      []raw.OrderRow
	items       []raw.ItemRow
	payments    []raw.PaymentRow
	reviews     []raw.ReviewRow
}

// Generate writes all nine extracts to OutDir.
func (g *Generator) Generate(ctx context.Context) ([]File, error) {
	if g.cfg.Orders < 1 {
		return nil, fmt.Errorf("orders must be at least 1, got %d", g.cfg.Orders)
	}
	if err := os.MkdirAll(g.cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if !g.cfg.Force {
		for _, src := range raw.Sources(0) {
			path := filepath.Join(g.cfg.OutDir, src.File)
			_, err := os.Stat(path)
			if err == nil {
				return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to check %s: %w", path, err)
			}
		}
	}

	ds := g.build()

	records := map[string]any{
		"customers":   ds.customers,
		"geolocation": ds.geolocation,
		"categories":  ds.categories,
		"sellers":     ds.sellers,
		"products":    ds.products,
		"orders":      ds.orders,
		"items":       ds.items,
		"payments":    ds.payments,
		"reviews":     ds.reviews,
	}

	var files []File
	for _, src := range raw.Sources(0) {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		data, err := csvutil.Marshal(records[src.Table])
		if err != nil {
			return files, fmt.Errorf("failed to encode %s: %w", src.File, err)
		}

		path := filepath.Join(g.cfg.OutDir, src.File)
		if err := g.writeFile(path, data); err != nil {
			return files, err
		}

		f := File{Table: src.Table, Path: path, Rows: rowCount(records[src.Table])}
		files = append(files, f)

		logging.Info().
			Str("table", f.Table).
			Int("rows", f.Rows).
			Str("path", f.Path).
			Msg("Generated file")
	}

	return files, nil
}

// writeFile creates path with data. Without Force an existing file is
// never truncated, even if it appeared after the initial check.
func (g *Generator) writeFile(path string, data []byte) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if g.cfg.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrFileExists, path)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func rowCount(v any) int {
	switch rows := v.(type) {
	case []raw.CustomerRow:
		return len(rows)
	case []raw.GeolocationRow:
		return len(rows)
	case []raw.CategoryRow:
		return len(rows)
	case []raw.SellerRow:
		return len(rows)
	case []raw.ProductRow:
		return len(rows)
	case []raw.OrderRow:
		return len(rows)
	case []raw.ItemRow:
		return len(rows)
	case []raw.PaymentRow:
		return len(rows)
	case []raw.ReviewRow:
		return len(rows)
	}
	return 0
}

func (g *Generator) build() *dataset {
	f := g.faker
	ds := &dataset{}

	for _, c := range categories {
		ds.categories = append(ds.categories, raw.CategoryRow{
			Name:        raw.NewText(c[0]),
			NameEnglish: raw.NewText(c[1]),
		})
	}

	zips := make(map[int64]city)

	nSellers := max(1, g.cfg.Orders/20)
	for range nSellers {
		c, zip := g.place()
		zips[zip] = c
		ds.sellers = append(ds.sellers, raw.SellerRow{
			SellerID:            raw.NewText(f.ID()),
			SellerZipCodePrefix: raw.NewInt(zip),
			SellerCity:          raw.NewText(g.spelling(c.name)),
			SellerState:         raw.NewText(c.state),
		})
	}

	nProducts := max(2, g.cfg.Orders/4)
	for i := range nProducts {
		category := f.NullableText(Choose(f, categories)[0], 0.02)
		if i == 0 {
			category = raw.NewText(OrphanCategory)
		}
		ds.products = append(ds.products, raw.ProductRow{
			ProductID:                raw.NewText(f.ID()),
			ProductCategoryName:      category,
			ProductNameLength:        raw.NewInt(int64(f.Int(5, 76))),
			ProductDescriptionLength: raw.NewInt(int64(f.Int(4, 3992))),
			ProductPhotosQty:         raw.NewInt(int64(f.Int(1, 6))),
			ProductWeightG:           raw.NewInt(int64(f.Int(50, 30000))),
			ProductLengthCm:          raw.NewInt(int64(f.Int(7, 105))),
			ProductHeightCm:          raw.NewInt(int64(f.Int(2, 105))),
			ProductWidthCm:           raw.NewInt(int64(f.Int(6, 118))),
		})
	}

	for range g.cfg.Orders {
		c, zip := g.place()
		zips[zip] = c
		customer := raw.CustomerRow{
			CustomerID:            raw.NewText(f.ID()),
			CustomerUniqueID:      raw.NewText(f.ID()),
			CustomerZipCodePrefix: raw.NewInt(zip),
			CustomerCity:          raw.NewText(g.spelling(c.name)),
			CustomerState:         raw.NewText(c.state),
		}
		ds.customers = append(ds.customers, customer)
		g.order(ds, customer.CustomerID.String)
	}

	for _, zip := range slices.Sorted(maps.Keys(zips)) {
		c := zips[zip]
		for range f.Int(1, 4) {
			ds.geolocation = append(ds.geolocation, raw.GeolocationRow{
				ZipCodePrefix: raw.NewInt(zip),
				Lat:           raw.NewFloat(f.Float64(-33.7, -2.5)),
				Lng:           raw.NewFloat(f.Float64(-72.9, -34.8)),
				City:          raw.NewText(g.spelling(c.name)),
				State:         raw.NewText(c.state),
			})
		}
	}

	return ds
}

// order appends one order with its items, payments and review.
func (g *Generator) order(ds *dataset, customerID string) {
	f := g.faker
	orderID := f.ID()
	status := ChooseWeighted(f, orderStatuses, statusWeights)

	purchased := f.DateRange(periodStart, periodEnd)
	o := raw.OrderRow{
		OrderID:                    raw.NewText(orderID),
		CustomerID:                 raw.NewText(customerID),
		OrderStatus:                raw.NewText(status),
		OrderPurchaseTimestamp:     raw.NewTimestamp(purchased),
		OrderEstimatedDeliveryDate: raw.NewDate(purchased.AddDate(0, 0, f.Int(10, 40))),
	}
	if status != "canceled" && status != "unavailable" {
		o.OrderApprovedAt = raw.NewTimestamp(purchased.Add(time.Duration(f.Int(10, 3000)) * time.Minute))
	}
	if status == "delivered" || status == "shipped" {
		o.OrderDeliveredCarrierDate = raw.NewTimestamp(purchased.AddDate(0, 0, f.Int(1, 5)))
	}
	if status == "delivered" && !f.Chance(0.01) {
		o.OrderDeliveredCustomerDate = raw.NewTimestamp(purchased.AddDate(0, 0, f.Int(3, 45)))
	}
	ds.orders = append(ds.orders, o)

	if status == "unavailable" {
		// Unavailable orders never get items; they still have a payment.
		g.payments(ds, orderID, f.Price(20, 300))
		g.review(ds, orderID, purchased)
		return
	}

	var total float64
	for n := range f.Int(1, 3) {
		price := f.Price(5, 900)
		freight := f.Price(0, 60)
		total += price + freight
		ds.items = append(ds.items, raw.ItemRow{
			OrderID:           raw.NewText(orderID),
			OrderItemID:       raw.NewInt(int64(n + 1)),
			ProductID:         raw.NewText(Choose(f, ds.products).ProductID.String),
			SellerID:          raw.NewText(Choose(f, ds.sellers).SellerID.String),
			ShippingLimitDate: raw.NewTimestamp(purchased.AddDate(0, 0, f.Int(2, 7))),
			Price:             raw.NewFloat(price),
			FreightValue:      raw.NewFloat(freight),
		})
	}

	g.payments(ds, orderID, total)
	if f.Chance(0.97) {
		g.review(ds, orderID, purchased)
	}
}

// payments splits amount over one or two payments. A second payment is a
// voucher.
func (g *Generator) payments(ds *dataset, orderID string, amount float64) {
	f := g.faker

	first := ChooseWeighted(f, paymentTypes, paymentWeights)
	installments := int64(1)
	if first == "credit_card" {
		installments = int64(f.Int(1, 10))
	}

	if !f.Chance(0.05) {
		ds.payments = append(ds.payments, payment(orderID, 1, first, installments, amount))
		return
	}

	voucher := f.Price(1, amount/2+1)
	ds.payments = append(ds.payments,
		payment(orderID, 1, first, installments, amount-voucher),
		payment(orderID, 2, "voucher", 1, voucher),
	)
}

func payment(orderID string, seq int64, kind string, installments int64, value float64) raw.PaymentRow {
	return raw.PaymentRow{
		OrderID:             raw.NewText(orderID),
		PaymentSequential:   raw.NewInt(seq),
		PaymentType:         raw.NewText(kind),
		PaymentInstallments: raw.NewInt(installments),
		PaymentValue:        raw.NewFloat(math.Round(value*100) / 100),
	}
}

func (g *Generator) review(ds *dataset, orderID string, purchased time.Time) {
	f := g.faker
	created := purchased.AddDate(0, 0, f.Int(5, 50))

	r := raw.ReviewRow{
		ReviewID:              raw.NewText(f.ID()),
		OrderID:               raw.NewText(orderID),
		ReviewScore:           raw.NewInt(int64(ChooseWeighted(f, []int{1, 2, 3, 4, 5}, []int{11, 3, 8, 19, 59}))),
		ReviewCreationDate:    raw.NewDate(created),
		ReviewAnswerTimestamp: raw.NewTimestamp(created.Add(time.Duration(f.Int(60, 7*24*60)) * time.Minute)),
	}
	if f.Chance(0.1) {
		r.ReviewCommentTitle = raw.NewText(f.Sentence(2))
	}
	if f.Chance(0.4) {
		msg := f.Sentence(f.Int(3, 15))
		if f.Chance(0.2) {
			// Multi-line comments with commas appear in the real extract.
			msg += ",\n" + f.Sentence(4)
		}
		r.ReviewCommentMessage = raw.NewText(msg)
	}
	ds.reviews = append(ds.reviews, r)
}

// place picks a city and a zip prefix inside it. Each city owns a fixed
// block of prefixes so that a prefix never maps to two cities.
func (g *Generator) place() (city, int64) {
	i := g.faker.Int(0, len(cities)-1)
	zip := int64(1000 + i*1000 + g.faker.Int(0, 49))
	return cities[i], zip
}

// spelling returns one of the ways a city name appears in the extracts.
// All variants normalize to the same value.
func (g *Generator) spelling(name string) string {
	switch g.faker.Int(0, 3) {
	case 0:
		return name
	case 1:
		return strings.ToLower(name)
	case 2:
		return strings.ReplaceAll(strings.ToLower(name), " ", "  ")
	default:
		return "  " + strings.ReplaceAll(name, " ", "-") + "!"
	}
}
