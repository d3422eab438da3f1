// Package sdp implements the SDP and SCP packet formats used to talk to
// the board. The wire layout is a firmware contract: an 8-byte header
// followed by a payload, all multi-byte fields little-endian. An SCP
// packet is an SDP packet whose first 16 payload bytes carry a command
// header.
package sdp

const (
	flagReply   = 0x87
	flagNoReply = 0x07

	// HeaderBytes is the length of the SDP header.
	HeaderBytes = 8

	// MaxSDPData is the maximum SDP payload length.
	MaxSDPData = 272
)

// SDPPacket is the basic packet envelope. Field ranges:
//
//	Tag                      [0, 256)
//	DestPort, SrcPort        [0, 8)
//	DestCPU, SrcCPU          [0, 18)
//	DestX, DestY, SrcX, SrcY [0, 256)
//	Data                     at most 272 bytes
//
// Validate reports the first violation; Bytes refuses to encode an
// invalid packet.
type SDPPacket struct {
	ReplyExpected bool
	Tag           int
	DestPort      int
	DestCPU       int
	SrcPort       int
	SrcCPU        int
	DestX, DestY  int
	SrcX, SrcY    int
	Data          []byte
}

// NewSDPPacket creates a validated SDP packet.
func NewSDPPacket(
	replyExpected bool,
	tag, destPort, destCPU, srcPort, srcCPU int,
	destX, destY, srcX, srcY int,
	data []byte,
) (*SDPPacket, error) {
	p := &SDPPacket{
		ReplyExpected: replyExpected,
		Tag:           tag,
		DestPort:      destPort,
		DestCPU:       destCPU,
		SrcPort:       srcPort,
		SrcCPU:        srcCPU,
		DestX:         destX,
		DestY:         destY,
		SrcX:          srcX,
		SrcY:          srcY,
		Data:          data,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks every field against its declared range.
func (p *SDPPacket) Validate() error {
	checks := []struct {
		field    string
		value    int
		min, max int
	}{
		{"Tag", p.Tag, 0, 256},
		{"DestPort", p.DestPort, 0, 8},
		{"DestCPU", p.DestCPU, 0, 18},
		{"SrcPort", p.SrcPort, 0, 8},
		{"SrcCPU", p.SrcCPU, 0, 18},
		{"DestX", p.DestX, 0, 256},
		{"DestY", p.DestY, 0, 256},
		{"SrcX", p.SrcX, 0, 256},
		{"SrcY", p.SrcY, 0, 256},
	}

	for _, c := range checks {
		if c.value < c.min || c.value >= c.max {
			return &FieldOutOfRangeError{
				Field: c.field, Value: c.value, Min: c.min, Max: c.max,
			}
		}
	}

	if len(p.Data) > MaxSDPData {
		return &TooManyFieldsError{
			Field: "Data", Len: len(p.Data), Max: MaxSDPData,
		}
	}

	return nil
}

// packCPUPort combines a 3-bit port and a 5-bit CPU number into the
// shared header byte.
func packCPUPort(port, cpu int) byte {
	return byte(((port & 0x07) << 5) | (cpu & 0x1F))
}

// unpackCPUPort splits the shared header byte back into CPU and port.
func unpackCPUPort(b byte) (cpu, port int) {
	return int(b & 0x1F), int((b >> 5) & 0x07)
}

// Bytes encodes the packet. The packet is validated first so that no
// out-of-range field is ever silently truncated into the header.
func (p *SDPPacket) Bytes() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	flags := byte(flagNoReply)
	if p.ReplyExpected {
		flags = flagReply
	}

	out := make([]byte, 0, HeaderBytes+len(p.Data))
	out = append(out,
		flags,
		byte(p.Tag),
		packCPUPort(p.DestPort, p.DestCPU),
		packCPUPort(p.SrcPort, p.SrcCPU),
		byte(p.DestX),
		byte(p.DestY),
		byte(p.SrcX),
		byte(p.SrcY),
	)
	out = append(out, p.Data...)

	return out, nil
}

// ParseSDPPacket decodes a packet from its wire form. A flags byte that
// is neither the reply nor the no-reply marker is an InvalidHeaderError.
func ParseSDPPacket(b []byte) (*SDPPacket, error) {
	if len(b) < HeaderBytes {
		return nil, &PayloadTooShortError{Len: len(b), Need: HeaderBytes}
	}

	var replyExpected bool
	switch b[0] {
	case flagReply:
		replyExpected = true
	case flagNoReply:
		replyExpected = false
	default:
		return nil, &InvalidHeaderError{Flags: b[0]}
	}

	destCPU, destPort := unpackCPUPort(b[2])
	srcCPU, srcPort := unpackCPUPort(b[3])

	data := make([]byte, len(b)-HeaderBytes)
	copy(data, b[HeaderBytes:])

	return NewSDPPacket(
		replyExpected, int(b[1]),
		destPort, destCPU, srcPort, srcCPU,
		int(b[4]), int(b[5]), int(b[6]), int(b[7]),
		data,
	)
}
