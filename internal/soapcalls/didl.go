package soapcalls

import (
	"fmt"
	"strings"
)

// DLNAProfile returns the protocolInfo additional-info block for a MIME
// type. Profiles matter to picky renderers (notably Samsung TVs) that
// refuse a URI whose metadata omits them.
func DLNAProfile(mimeType string) string {
	switch mimeType {
	case "video/mp4":
		return "DLNA.ORG_PN=AVC_MP4_HD_24_AC3;DLNA.ORG_OP=11;DLNA.ORG_CI=0;DLNA.ORG_FLAGS=01500000000000000000000000000000"
	case "video/x-matroska":
		return "DLNA.ORG_PN=AVC_MKV_HD_24_AC3;DLNA.ORG_OP=11;DLNA.ORG_CI=0;DLNA.ORG_FLAGS=01500000000000000000000000000000"
	case "audio/mpeg":
		return "DLNA.ORG_PN=MP3;DLNA.ORG_OP=11;DLNA.ORG_CI=0;DLNA.ORG_FLAGS=01500000000000000000000000000000"
	default:
		return "DLNA.ORG_OP=11;DLNA.ORG_CI=0;DLNA.ORG_FLAGS=01500000000000000000000000000000"
	}
}

// upnpClass maps a MIME type onto the DIDL object class hierarchy.
func upnpClass(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/"):
		return "object.item.audioItem.musicTrack"
	case strings.HasPrefix(mimeType, "image/"):
		return "object.item.imageItem.photo"
	default:
		return "object.item.videoItem.movie"
	}
}

// BuildDIDL produces the DIDL-Lite metadata document that accompanies
// SetAVTransportURI. Title and URI are escaped; the document itself is
// later escaped again when embedded in the SOAP envelope.
func BuildDIDL(mediaURL, title, mimeType string) string {
	protocolInfo := fmt.Sprintf("http-get:*:%s:%s", mimeType, DLNAProfile(mimeType))

	var b strings.Builder
	b.WriteString(`<DIDL-Lite xmlns="urn:schemas-upnp-org:metadata-1-0/DIDL-Lite/" `)
	b.WriteString(`xmlns:dc="http://purl.org/dc/elements/1.1/" `)
	b.WriteString(`xmlns:upnp="urn:schemas-upnp-org:metadata-1-0/upnp/" `)
	b.WriteString(`xmlns:dlna="urn:schemas-dlna-org:metadata-1-0/">`)
	b.WriteString(`<item id="0" parentID="-1" restricted="1">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, Escape(title))
	fmt.Fprintf(&b, `<upnp:class>%s</upnp:class>`, upnpClass(mimeType))
	fmt.Fprintf(&b, `<res protocolInfo="%s">%s</res>`, protocolInfo, Escape(mediaURL))
	b.WriteString(`</item></DIDL-Lite>`)
	return b.String()
}
