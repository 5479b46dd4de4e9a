package pkg

const (
	Separator   = "--------------------"
	WordsSuffix = "Words"

	// SummaryPrefix marks trailer lines a count file reader must skip.
	SummaryPrefix = "---"
)

type Variant string

const (
	VariantNormal   Variant = "normal"
	VariantStemming Variant = "stemming"
	VariantLemming  Variant = "lemming"
)

var Variants = []Variant{VariantNormal, VariantStemming, VariantLemming}
