package sync

import (
	"fmt"
	"time"

	"stream-sync/feature/catalog"
)

// notAvailable is written when a tracked service has no usable offer.
const notAvailable = "Not available"

// addonBundlePrefix marks pseudo-addons the catalog emits for bundled
// storefront listings; they are not real availability.
const addonBundlePrefix = "tvs.sbd"

// offerKind is the tagged classification of a streaming offer.
type offerKind int

const (
	subscriptionWithExpiry offerKind = iota
	subscriptionPlain
	addonOffer
	unrecognizedOffer
)

// classifyOffer maps an offer onto the variant that decides its
// description.
func classifyOffer(o catalog.StreamingOption) offerKind {
	switch {
	case o.Type == "subscription" && o.ExpiresOn > 0:
		return subscriptionWithExpiry
	case o.Type == "subscription":
		return subscriptionPlain
	case o.Type == "addon" && o.Addon != nil:
		return addonOffer
	default:
		return unrecognizedOffer
	}
}

// usableOffers filters a country's offer list down to the kinds that
// represent real availability: subscriptions and addons, minus the
// addon-bundle pseudo-offers.
func usableOffers(options []catalog.StreamingOption) []catalog.StreamingOption {
	var usable []catalog.StreamingOption
	for _, o := range options {
		if o.Addon != nil && len(o.Addon.ID) >= len(addonBundlePrefix) &&
			o.Addon.ID[:len(addonBundlePrefix)] == addonBundlePrefix {
			continue
		}
		if o.Type != "subscription" && o.Type != "addon" {
			continue
		}
		usable = append(usable, o)
	}
	return usable
}

// describeOffer renders the availability description for one service
// from the country's offer list. Preference order: expiry-bearing
// subscription, plain subscription, addon. An offer that matches none
// of the recognized shapes produces a visible diagnostic so provider
// contract drift shows up in documents instead of vanishing.
func describeOffer(options []catalog.StreamingOption, serviceID string) string {
	var best *catalog.StreamingOption
	bestKind := unrecognizedOffer

	for _, o := range usableOffers(options) {
		if o.Service.ID != serviceID {
			continue
		}
		kind := classifyOffer(o)
		if best == nil || kind < bestKind {
			opt := o
			best = &opt
			bestKind = kind
		}
	}

	if best == nil {
		return notAvailable
	}

	switch bestKind {
	case subscriptionWithExpiry:
		expires := time.Unix(best.ExpiresOn, 0).UTC()
		return "Available until " + expires.Format("Jan 2, 2006")
	case subscriptionPlain:
		return "Available"
	case addonOffer:
		return "Available with " + best.Addon.Name
	default:
		return fmt.Sprintf("Unrecognized offer (type %q)", best.Type)
	}
}
