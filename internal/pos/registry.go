// =============================================================================
// POS Ingest - Signature Registry
// =============================================================================
//
// The registry holds the known POS export signatures in a fixed declaration
// order. Classification iterates the registry in that order, so scoring ties
// resolve to the earlier signature and repeated runs over identical input
// produce identical output.
//
// The built-in registry covers twelve systems. Custom signatures loaded from
// config extend the list before the first classification; after that the
// registry is treated as immutable.
//
// =============================================================================

package pos

import (
	"fmt"
	"strings"

	"github.com/adityabandi/posingest/internal/types"
)

// Signature describes the fingerprint of one POS system's export format.
// Column matching is case-insensitive substring containment; Identifiers and
// FilePatterns match against the lowercased filename. DateFormats are
// column-name tokens (date, time, order date) matched the same way columns
// are.
type Signature struct {
	Name            string         `yaml:"name"`
	Identifiers     []string       `yaml:"identifiers"`
	RequiredColumns []string       `yaml:"required_columns"`
	OptionalColumns []string       `yaml:"optional_columns"`
	DateFormats     []string       `yaml:"date_formats"`
	FilePatterns    []string       `yaml:"file_patterns"`
	ConfidenceBoost float64        `yaml:"confidence_boost"`
	DataType        types.DataType `yaml:"data_type,omitempty"`
}

// Registry is an ordered signature list.
type Registry struct {
	sigs []Signature
}

// NewRegistry returns the built-in registry.
func NewRegistry() *Registry {
	sigs := make([]Signature, len(builtinSignatures))
	copy(sigs, builtinSignatures)
	return &Registry{sigs: sigs}
}

// Add appends a custom signature. Names must be unique and lowercase.
func (r *Registry) Add(sig Signature) error {
	name := strings.TrimSpace(sig.Name)
	if name == "" {
		return fmt.Errorf("signature has no name")
	}
	if name != strings.ToLower(name) {
		return fmt.Errorf("signature name %q must be lowercase", name)
	}
	for _, s := range r.sigs {
		if s.Name == name {
			return fmt.Errorf("signature %q already registered", name)
		}
	}
	sig.Name = name
	r.sigs = append(r.sigs, sig)
	return nil
}

// Signatures returns the registered signatures in declaration order.
func (r *Registry) Signatures() []Signature { return r.sigs }

// builtinSignatures is the fixed registry of known systems. Order matters:
// earlier entries win score ties.
var builtinSignatures = []Signature{
	{
		Name:            "square",
		Identifiers:     []string{"square", "sq ", "square for restaurants"},
		RequiredColumns: []string{"gross sales", "net sales", "item"},
		OptionalColumns: []string{"tax", "tip", "fees", "discount", "modifier", "category", "device", "card brand"},
		DateFormats:     []string{"date", "time", "timezone"},
		FilePatterns:    []string{"square_items", "square_transactions", "items-", "transactions-"},
		ConfidenceBoost: 0.15,
	},
	{
		Name:            "toast",
		Identifiers:     []string{"toast", "toasttab", "toast pos"},
		RequiredColumns: []string{"item", "quantity", "gross"},
		OptionalColumns: []string{"net", "void", "comp", "promo", "server", "table", "check"},
		DateFormats:     []string{"date", "time", "order date"},
		FilePatterns:    []string{"toast_", "menu_items", "sales_summary"},
		ConfidenceBoost: 0.15,
	},
	{
		Name:            "clover",
		Identifiers:     []string{"clover", "clover pos"},
		RequiredColumns: []string{"name", "price", "quantity"},
		OptionalColumns: []string{"amount", "tax", "employee", "tender", "note", "revenue class"},
		DateFormats:     []string{"date", "time"},
		FilePatterns:    []string{"clover_", "orders_export", "items_export"},
		ConfidenceBoost: 0.15,
	},
	{
		Name:            "lightspeed",
		Identifiers:     []string{"lightspeed", "ls retail"},
		RequiredColumns: []string{"item", "qty", "total"},
		OptionalColumns: []string{"sale id", "register", "employee", "customer", "discount"},
		DateFormats:     []string{"completed", "sale time"},
		FilePatterns:    []string{"lightspeed_", "sales_export"},
		ConfidenceBoost: 0.12,
	},
	{
		Name:            "shopify",
		Identifiers:     []string{"shopify", "shopify pos"},
		RequiredColumns: []string{"name", "lineitem quantity", "lineitem price"},
		OptionalColumns: []string{"email", "financial status", "fulfillment status", "accepts marketing"},
		DateFormats:     []string{"created at", "updated at"},
		FilePatterns:    []string{"orders_export", "shopify_"},
		ConfidenceBoost: 0.12,
	},
	{
		Name:            "resy",
		Identifiers:     []string{"resy", "reservation"},
		RequiredColumns: []string{"party size", "date", "time"},
		OptionalColumns: []string{"guest", "venue", "status", "table", "shift"},
		DateFormats:     []string{"reservation date", "created date"},
		FilePatterns:    []string{"resy_", "reservations_"},
		ConfidenceBoost: 0.10,
		DataType:        types.DataTypeReservations,
	},
	{
		Name:            "opentable",
		Identifiers:     []string{"opentable", "open table"},
		RequiredColumns: []string{"party size", "reservation"},
		OptionalColumns: []string{"guest", "phone", "email", "special requests", "tags"},
		DateFormats:     []string{"reservation date and time"},
		FilePatterns:    []string{"opentable_", "guest_center_"},
		ConfidenceBoost: 0.10,
		DataType:        types.DataTypeReservations,
	},
	{
		Name:            "doordash",
		Identifiers:     []string{"doordash", "door dash"},
		RequiredColumns: []string{"order", "subtotal", "delivery fee"},
		OptionalColumns: []string{"tip", "total", "customer", "dasher", "restaurant payout"},
		DateFormats:     []string{"created at", "delivered at"},
		FilePatterns:    []string{"doordash_", "delivery_report"},
		ConfidenceBoost: 0.12,
		DataType:        types.DataTypeDelivery,
	},
	{
		Name:            "ubereats",
		Identifiers:     []string{"uber eats", "ubereats", "uber"},
		RequiredColumns: []string{"order", "fare", "uber fee"},
		OptionalColumns: []string{"tip", "tax", "total", "restaurant payout", "order status"},
		DateFormats:     []string{"date", "order date"},
		FilePatterns:    []string{"uber_", "ubereats_", "restaurant_payment"},
		ConfidenceBoost: 0.12,
		DataType:        types.DataTypeDelivery,
	},
	{
		Name:            "grubhub",
		Identifiers:     []string{"grubhub", "seamless"},
		RequiredColumns: []string{"order id", "subtotal", "commission"},
		OptionalColumns: []string{"tip", "delivery fee", "processing fee", "net payout"},
		DateFormats:     []string{"order date", "delivered date"},
		FilePatterns:    []string{"grubhub_", "seamless_", "payout_detail"},
		ConfidenceBoost: 0.12,
		DataType:        types.DataTypeDelivery,
	},
	{
		Name:            "ncr_aloha",
		Identifiers:     []string{"aloha", "ncr"},
		RequiredColumns: []string{"item", "qty", "sales"},
		OptionalColumns: []string{"server", "table", "check", "terminal", "void"},
		DateFormats:     []string{"date", "time"},
		FilePatterns:    []string{"aloha_", "pmix", "gnditem"},
		ConfidenceBoost: 0.10,
	},
	{
		Name:            "micros",
		Identifiers:     []string{"micros", "oracle hospitality"},
		RequiredColumns: []string{"item", "quantity", "total"},
		OptionalColumns: []string{"employee", "revenue center", "order type", "discount"},
		DateFormats:     []string{"business date", "transaction time"},
		FilePatterns:    []string{"micros_", "menu_item_detail"},
		ConfidenceBoost: 0.10,
	},
}
