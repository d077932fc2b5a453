package domain

// Placeholder is rendered wherever a version is unknown
const Placeholder = "-"

// DeployedProduct is a single entry of the Ops Manager deployed products listing
type DeployedProduct struct {
	InstallationName string `json:"installation_name,omitempty"`
	GUID             string `json:"guid,omitempty"`
	Type             string `json:"type"`
	ProductVersion   string `json:"product_version"`
}

// CatalogRelease is the subset of a catalog "latest release" payload the report reads
type CatalogRelease struct {
	Version      string        `json:"version"`
	ProductFiles []ProductFile `json:"product_files"`
}

type ProductFile struct {
	AWSObjectKey string `json:"aws_object_key"`
	FileVersion  string `json:"file_version"`
}
