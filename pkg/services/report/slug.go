package report

// productSlugs translates Ops Manager product types to catalog slugs where they differ
var productSlugs = map[string]string{
	"apm":                            "pcf-metrics",
	"apmPostgres":                    "pcf-metrics",
	"cf":                             "elastic-runtime",
	"p-bosh":                         "ops-manager",
	"scanner":                        "p-compliance-scanner",
	"apigee-cf-service-broker":       "apigee-edge-for-pcf-service-broker",
	"p-rabbitmq":                     "pivotal-rabbitmq-service",
	"Pivotal_Single_Sign-On_Service": "p-identity",
	"p-windows-runtime":              "runtime-for-windows",
}

// ProductSlug returns the catalog slug of an Ops Manager product type. Unknown types are
// assumed to share their name with the slug.
func ProductSlug(productType string) string {
	if slug, ok := productSlugs[productType]; ok {
		return slug
	}
	return productType
}
