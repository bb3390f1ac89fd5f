package domain

import "fmt"

// Asset identifies a supported cryptocurrency by its price API id.
type Asset string

const (
	Bitcoin  Asset = "bitcoin"
	Ethereum Asset = "ethereum"
	Solana   Asset = "solana"
)

// AssetInfo holds display metadata for an asset.
type AssetInfo struct {
	Name   string
	Symbol string
	Icon   string
}

var assetInfo = map[Asset]AssetInfo{
	Bitcoin:  {Name: "Bitcoin", Symbol: "BTC", Icon: "₿"},
	Ethereum: {Name: "Ethereum", Symbol: "ETH", Icon: "Ξ"},
	Solana:   {Name: "Solana", Symbol: "SOL", Icon: "◎"},
}

// SupportedAssets lists the selectable assets in display order.
var SupportedAssets = []Asset{Bitcoin, Ethereum, Solana}

func (a Asset) IsValid() bool {
	_, ok := assetInfo[a]
	return ok
}

func (a Asset) Info() AssetInfo {
	return assetInfo[a]
}

// Next returns the asset after a in display order, wrapping around.
func (a Asset) Next() Asset {
	return SupportedAssets[(indexOf(SupportedAssets, a)+1)%len(SupportedAssets)]
}

func (a Asset) Prev() Asset {
	n := len(SupportedAssets)
	return SupportedAssets[(indexOf(SupportedAssets, a)-1+n)%n]
}

func ParseAsset(s string) (Asset, error) {
	a := Asset(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unsupported asset: %q", s)
	}
	return a, nil
}

// Range is the requested time window for price history.
type Range string

const (
	Range1H  Range = "1h"
	Range6H  Range = "6h"
	Range24H Range = "24h"
	Range7D  Range = "7d"
	Range30D Range = "30d"
)

// SupportedRanges lists the selectable ranges in display order.
var SupportedRanges = []Range{Range1H, Range6H, Range24H, Range7D, Range30D}

var rangeLabels = map[Range]string{
	Range1H:  "1H",
	Range6H:  "6H",
	Range24H: "24H",
	Range7D:  "7D",
	Range30D: "30D",
}

func (r Range) IsValid() bool {
	_, ok := rangeLabels[r]
	return ok
}

// Label returns the short display label, "24H" for unknown ranges.
func (r Range) Label() string {
	if l, ok := rangeLabels[r]; ok {
		return l
	}
	return "24H"
}

// Intraday reports whether the range is short enough to label ticks by clock time.
func (r Range) Intraday() bool {
	return r == Range1H || r == Range6H || r == Range24H
}

func (r Range) Next() Range {
	return SupportedRanges[(indexOf(SupportedRanges, r)+1)%len(SupportedRanges)]
}

func (r Range) Prev() Range {
	n := len(SupportedRanges)
	return SupportedRanges[(indexOf(SupportedRanges, r)-1+n)%n]
}

func ParseRange(s string) (Range, error) {
	r := Range(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unsupported range: %q", s)
	}
	return r, nil
}

// indexOf returns the position of v in list, or -1. An unknown value
// therefore steps to the first element on Next.
func indexOf[T comparable](list []T, v T) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}
