package insights

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stageside/merchtable-backend/internal/modules/band"
	"github.com/stageside/merchtable-backend/internal/modules/pos"
)

// ItemStat is units and revenue for one item across the sales history.
type ItemStat struct {
	Name    string  `json:"name"`
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"`
}

// SellerStat is sale count and revenue for one seller.
type SellerStat struct {
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// Recap is the aggregate view of a band's sales history plus a short prose
// summary. The narrative is best-effort: generation failures never fail the
// recap.
type Recap struct {
	SaleCount  int          `json:"sale_count"`
	Revenue    float64      `json:"revenue"`
	TopItems   []ItemStat   `json:"top_items"`
	TopSellers []SellerStat `json:"top_sellers"`
	Narrative  string       `json:"narrative"`
}

// Service computes sales recaps.
type Service interface {
	SalesRecap(ctx context.Context, actorID, bandID string) (*Recap, error)
}

type service struct {
	sales     pos.Repository
	members   band.MemberReader
	generator Generator
}

// NewService creates a new insights service.
func NewService(sales pos.Repository, members band.MemberReader, generator Generator) Service {
	return &service{sales: sales, members: members, generator: generator}
}

func (s *service) SalesRecap(ctx context.Context, actorID, bandID string) (*Recap, error) {
	role, err := s.members.GetMemberRole(ctx, bandID, actorID)
	if err != nil {
		return nil, err
	}
	if !role.Can(band.ActionViewHistory) {
		return nil, fmt.Errorf("forbidden: role %q cannot view sales history", role)
	}

	sales, err := s.sales.ListSalesByBand(ctx, bandID)
	if err != nil {
		return nil, err
	}

	recap := aggregate(sales)

	narrative, err := s.generator.Generate(ctx, buildPrompt(recap))
	if err != nil {
		logrus.WithError(err).WithField("band_id", bandID).Warn("narrative generation failed, using fallback")
		narrative = fallbackNarrative(recap)
	}
	recap.Narrative = narrative
	return recap, nil
}

func aggregate(sales []*pos.Sale) *Recap {
	recap := &Recap{SaleCount: len(sales)}
	items := make(map[string]*ItemStat)
	sellers := make(map[string]*SellerStat)

	for _, sale := range sales {
		recap.Revenue += sale.Total

		stat, ok := sellers[sale.SellerName]
		if !ok {
			stat = &SellerStat{Name: sale.SellerName}
			sellers[sale.SellerName] = stat
		}
		stat.Sales++
		stat.Revenue += sale.Total

		for _, line := range sale.Items {
			is, ok := items[line.Name]
			if !ok {
				is = &ItemStat{Name: line.Name}
				items[line.Name] = is
			}
			is.Units += line.Quantity
			is.Revenue += line.PriceAtSale * float64(line.Quantity)
		}
	}

	for _, is := range items {
		recap.TopItems = append(recap.TopItems, *is)
	}
	sort.Slice(recap.TopItems, func(i, j int) bool { return recap.TopItems[i].Units > recap.TopItems[j].Units })
	if len(recap.TopItems) > 5 {
		recap.TopItems = recap.TopItems[:5]
	}

	for _, ss := range sellers {
		recap.TopSellers = append(recap.TopSellers, *ss)
	}
	sort.Slice(recap.TopSellers, func(i, j int) bool { return recap.TopSellers[i].Revenue > recap.TopSellers[j].Revenue })
	if len(recap.TopSellers) > 3 {
		recap.TopSellers = recap.TopSellers[:3]
	}

	return recap
}

func buildPrompt(recap *Recap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, upbeat summary (2-3 sentences) of a band's merch sales for the band members. ")
	fmt.Fprintf(&b, "Totals: %d sales, %.2f revenue.", recap.SaleCount, recap.Revenue)
	if len(recap.TopItems) > 0 {
		fmt.Fprintf(&b, " Best-selling items:")
		for _, item := range recap.TopItems {
			fmt.Fprintf(&b, " %s (%d units),", item.Name, item.Units)
		}
	}
	if len(recap.TopSellers) > 0 {
		fmt.Fprintf(&b, " Top sellers:")
		for _, seller := range recap.TopSellers {
			fmt.Fprintf(&b, " %s (%.2f),", seller.Name, seller.Revenue)
		}
	}
	return strings.TrimSuffix(b.String(), ",")
}

func fallbackNarrative(recap *Recap) string {
	if recap.SaleCount == 0 {
		return "No sales recorded yet. Time to set up the merch table!"
	}
	msg := fmt.Sprintf("You have recorded %d sales for a total of %.2f.", recap.SaleCount, recap.Revenue)
	if len(recap.TopItems) > 0 {
		msg += fmt.Sprintf(" Your best seller is %s with %d units.", recap.TopItems[0].Name, recap.TopItems[0].Units)
	}
	return msg
}
