package inbound

import (
	"fmt"
	"time"

	"github.com/sellerkit/gomws/mws"
)

// ShipmentType values accepted by the transport operations.
type ShipmentType string

const (
	ShipmentSmallParcel ShipmentType = "SP"
	ShipmentLTL         ShipmentType = "LTL"
)

// Transport status values reported in TransportResult/TransportStatus.
const (
	TransportWorking           = "WORKING"
	TransportErrorOnEstimating = "ERROR_ON_ESTIMATING"
	TransportEstimating        = "ESTIMATING"
	TransportEstimated         = "ESTIMATED"
	TransportErrorOnConfirming = "ERROR_ON_CONFIRMING"
	TransportConfirming        = "CONFIRMING"
	TransportConfirmed         = "CONFIRMED"
	TransportVoiding           = "VOIDING"
	TransportVoided            = "VOIDED"
	TransportErrorInVoiding    = "ERROR_IN_VOIDING"
	TransportError             = "ERROR"
)

// Dimensions of a package or pallet.
type Dimensions struct {
	// Unit is "inches" or "centimeters".
	Unit   string
	Length float64
	Width  float64
	Height float64
}

// Weight of a package or pallet.
type Weight struct {
	// Unit is "pounds" or "kilograms".
	Unit  string
	Value float64
}

// Amount is a currency value.
type Amount struct {
	CurrencyCode string
	Value        string
}

// Contact for a partnered LTL carrier to coordinate pickup with.
type Contact struct {
	Name  string
	Phone string
	Email string
	Fax   string
}

// PartneredPackage describes one box in an Amazon-partnered small parcel
// shipment.
type PartneredPackage struct {
	Dimensions Dimensions
	Weight     Weight
}

// Pallet describes one pallet in a partnered LTL shipment.
type Pallet struct {
	Dimensions Dimensions
	Weight     *Weight
	IsStacked  bool
}

// TransportDetails is implemented by the four transport detail shapes.
// Each shape validates itself and writes its parameters under the
// TransportDetails prefix; the caller guarantees a failed shape never
// leaves partial parameters behind.
type TransportDetails interface {
	// Partnered reports whether Amazon's partnered carrier program is used.
	Partnered() bool
	// ShipmentType returns SP or LTL.
	ShipmentType() ShipmentType
	setParams(v mws.Values) error
}

const detailPrefix = "TransportDetails."

// PartneredSmallParcel uses an Amazon-partnered carrier; Amazon needs the
// dimensions and weight of every box to produce an estimate.
type PartneredSmallParcel struct {
	Packages []PartneredPackage
}

func (d *PartneredSmallParcel) Partnered() bool            { return true }
func (d *PartneredSmallParcel) ShipmentType() ShipmentType { return ShipmentSmallParcel }

func (d *PartneredSmallParcel) setParams(v mws.Values) error {
	if len(d.Packages) == 0 {
		return fmt.Errorf("%w: PartneredSmallParcelData requires a non-empty PackageList", mws.ErrMissingParam)
	}
	prefix := detailPrefix + "PartneredSmallParcelData.PackageList"
	for i, pkg := range d.Packages {
		if pkg.Dimensions.Unit == "" || pkg.Weight.Unit == "" {
			return fmt.Errorf("%w: package %d requires dimension and weight units", mws.ErrMissingParam, i+1)
		}
		v.Set(mws.ListKey(prefix, "member", i+1, "Dimensions", "Unit"), pkg.Dimensions.Unit)
		v.SetFloat(mws.ListKey(prefix, "member", i+1, "Dimensions", "Length"), pkg.Dimensions.Length)
		v.SetFloat(mws.ListKey(prefix, "member", i+1, "Dimensions", "Width"), pkg.Dimensions.Width)
		v.SetFloat(mws.ListKey(prefix, "member", i+1, "Dimensions", "Height"), pkg.Dimensions.Height)
		v.Set(mws.ListKey(prefix, "member", i+1, "Weight", "Unit"), pkg.Weight.Unit)
		v.SetFloat(mws.ListKey(prefix, "member", i+1, "Weight", "Value"), pkg.Weight.Value)
	}
	return nil
}

// NonPartneredSmallParcel uses the seller's own carrier; Amazon only needs
// the carrier name and one tracking id per box.
type NonPartneredSmallParcel struct {
	CarrierName string
	TrackingIDs []string
}

func (d *NonPartneredSmallParcel) Partnered() bool            { return false }
func (d *NonPartneredSmallParcel) ShipmentType() ShipmentType { return ShipmentSmallParcel }

func (d *NonPartneredSmallParcel) setParams(v mws.Values) error {
	if d.CarrierName == "" {
		return fmt.Errorf("%w: NonPartneredSmallParcelData requires CarrierName", mws.ErrMissingParam)
	}
	if len(d.TrackingIDs) == 0 {
		return fmt.Errorf("%w: NonPartneredSmallParcelData requires a non-empty PackageList", mws.ErrMissingParam)
	}
	v.Set(detailPrefix+"NonPartneredSmallParcelData.CarrierName", d.CarrierName)
	prefix := detailPrefix + "NonPartneredSmallParcelData.PackageList"
	for i, id := range d.TrackingIDs {
		if id == "" {
			return fmt.Errorf("%w: package %d has an empty TrackingId", mws.ErrMissingParam, i+1)
		}
		v.Set(mws.ListKey(prefix, "member", i+1, "TrackingId"), id)
	}
	return nil
}

// PartneredLTL books a less-than-truckload pickup through an
// Amazon-partnered carrier.
type PartneredLTL struct {
	Contact             Contact
	BoxCount            int
	FreightReadyDate    time.Time
	Pallets             []Pallet
	TotalWeight         *Weight
	SellerDeclaredValue *Amount
	// FreightClass is optional; Amazon estimates one when absent.
	FreightClass string
}

func (d *PartneredLTL) Partnered() bool            { return true }
func (d *PartneredLTL) ShipmentType() ShipmentType { return ShipmentLTL }

func (d *PartneredLTL) setParams(v mws.Values) error {
	if d.Contact.Name == "" || d.Contact.Phone == "" || d.Contact.Email == "" {
		return fmt.Errorf("%w: PartneredLtlData requires contact name, phone, and email", mws.ErrMissingParam)
	}
	if d.BoxCount <= 0 {
		return fmt.Errorf("%w: PartneredLtlData requires a positive BoxCount", mws.ErrMissingParam)
	}
	if d.FreightReadyDate.IsZero() {
		return fmt.Errorf("%w: PartneredLtlData requires FreightReadyDate", mws.ErrMissingParam)
	}
	prefix := detailPrefix + "PartneredLtlData."
	v.Set(prefix+"Contact.Name", d.Contact.Name)
	v.Set(prefix+"Contact.Phone", d.Contact.Phone)
	v.Set(prefix+"Contact.Email", d.Contact.Email)
	v.Set(prefix+"Contact.Fax", d.Contact.Fax)
	v.SetInt(prefix+"BoxCount", d.BoxCount)
	v.Set(prefix+"FreightReadyDate", d.FreightReadyDate.UTC().Format("2006-01-02"))
	v.Set(prefix+"SellerFreightClass", d.FreightClass)
	for i, p := range d.Pallets {
		if p.Dimensions.Unit == "" {
			return fmt.Errorf("%w: pallet %d requires a dimension unit", mws.ErrMissingParam, i+1)
		}
		palletPrefix := prefix + "PalletList"
		v.Set(mws.ListKey(palletPrefix, "member", i+1, "Dimensions", "Unit"), p.Dimensions.Unit)
		v.SetFloat(mws.ListKey(palletPrefix, "member", i+1, "Dimensions", "Length"), p.Dimensions.Length)
		v.SetFloat(mws.ListKey(palletPrefix, "member", i+1, "Dimensions", "Width"), p.Dimensions.Width)
		v.SetFloat(mws.ListKey(palletPrefix, "member", i+1, "Dimensions", "Height"), p.Dimensions.Height)
		if p.Weight != nil {
			v.Set(mws.ListKey(palletPrefix, "member", i+1, "Weight", "Unit"), p.Weight.Unit)
			v.SetFloat(mws.ListKey(palletPrefix, "member", i+1, "Weight", "Value"), p.Weight.Value)
		}
		v.SetBool(mws.ListKey(palletPrefix, "member", i+1, "IsStacked"), p.IsStacked)
	}
	if d.TotalWeight != nil {
		v.Set(prefix+"TotalWeight.Unit", d.TotalWeight.Unit)
		v.SetFloat(prefix+"TotalWeight.Value", d.TotalWeight.Value)
	}
	if d.SellerDeclaredValue != nil {
		v.Set(prefix+"SellerDeclaredValue.CurrencyCode", d.SellerDeclaredValue.CurrencyCode)
		v.Set(prefix+"SellerDeclaredValue.Value", d.SellerDeclaredValue.Value)
	}
	return nil
}

// NonPartneredLTL uses the seller's own freight carrier, identified by
// carrier name and PRO number.
type NonPartneredLTL struct {
	CarrierName string
	ProNumber   string
}

func (d *NonPartneredLTL) Partnered() bool            { return false }
func (d *NonPartneredLTL) ShipmentType() ShipmentType { return ShipmentLTL }

func (d *NonPartneredLTL) setParams(v mws.Values) error {
	if d.CarrierName == "" {
		return fmt.Errorf("%w: NonPartneredLtlData requires CarrierName", mws.ErrMissingParam)
	}
	if d.ProNumber == "" {
		return fmt.Errorf("%w: NonPartneredLtlData requires ProNumber", mws.ErrMissingParam)
	}
	v.Set(detailPrefix+"NonPartneredLtlData.CarrierName", d.CarrierName)
	v.Set(detailPrefix+"NonPartneredLtlData.ProNumber", d.ProNumber)
	return nil
}
