package sdp

import "encoding/binary"

const (
	// SCPHeaderBytes is the length of the command header carried in the
	// first payload bytes of an SCP packet.
	SCPHeaderBytes = 16

	// MaxSCPData is the maximum SCP payload length after the command
	// header.
	MaxSCPData = 256

	// MaxCmdRC is the inclusive upper bound for CmdRC and Seq.
	MaxCmdRC = 0xFFFF
)

// SCPPacket layers a command header over the SDP payload. CmdRC and Seq
// are in [0, 0xFFFF]; Arg1..Arg3 cover the full uint32 range by type.
type SCPPacket struct {
	SDPPacket

	CmdRC int
	Seq   int
	Arg1  uint32
	Arg2  uint32
	Arg3  uint32
}

// Validate checks the SCP fields and the shared SDP header fields.
func (p *SCPPacket) Validate() error {
	if p.CmdRC < 0 || p.CmdRC > MaxCmdRC {
		return &FieldOutOfRangeError{
			Field: "CmdRC", Value: p.CmdRC, Min: 0, Max: MaxCmdRC + 1,
		}
	}
	if p.Seq < 0 || p.Seq > MaxCmdRC {
		return &FieldOutOfRangeError{
			Field: "Seq", Value: p.Seq, Min: 0, Max: MaxCmdRC + 1,
		}
	}
	if len(p.Data) > MaxSCPData {
		return &TooManyFieldsError{
			Field: "Data", Len: len(p.Data), Max: MaxSCPData,
		}
	}

	// The SDP Validate would reject the combined payload length check
	// with the wrong bound, so check the header fields through a copy
	// that carries no payload.
	header := p.SDPPacket
	header.Data = nil

	return header.Validate()
}

// FromSDPPacket reinterprets the first 16 payload bytes of an SDP packet
// as the SCP command header. Shorter payloads fail with
// PayloadTooShortError.
func FromSDPPacket(sdp *SDPPacket) (*SCPPacket, error) {
	if len(sdp.Data) < SCPHeaderBytes {
		return nil, &PayloadTooShortError{
			Len: len(sdp.Data), Need: SCPHeaderBytes,
		}
	}

	p := &SCPPacket{
		SDPPacket: *sdp,
		CmdRC:     int(binary.LittleEndian.Uint16(sdp.Data[0:2])),
		Seq:       int(binary.LittleEndian.Uint16(sdp.Data[2:4])),
		Arg1:      binary.LittleEndian.Uint32(sdp.Data[4:8]),
		Arg2:      binary.LittleEndian.Uint32(sdp.Data[8:12]),
		Arg3:      binary.LittleEndian.Uint32(sdp.Data[12:16]),
	}
	p.Data = make([]byte, len(sdp.Data)-SCPHeaderBytes)
	copy(p.Data, sdp.Data[SCPHeaderBytes:])

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// ToSDPPacket flattens the command header back into the SDP payload.
func (p *SCPPacket) ToSDPPacket() (*SDPPacket, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	data := make([]byte, SCPHeaderBytes+len(p.Data))
	binary.LittleEndian.PutUint16(data[0:2], uint16(p.CmdRC))
	binary.LittleEndian.PutUint16(data[2:4], uint16(p.Seq))
	binary.LittleEndian.PutUint32(data[4:8], p.Arg1)
	binary.LittleEndian.PutUint32(data[8:12], p.Arg2)
	binary.LittleEndian.PutUint32(data[12:16], p.Arg3)
	copy(data[SCPHeaderBytes:], p.Data)

	sdp := p.SDPPacket
	sdp.Data = data

	return &sdp, nil
}

// Bytes encodes the full SCP packet, header and command header included.
func (p *SCPPacket) Bytes() ([]byte, error) {
	sdp, err := p.ToSDPPacket()
	if err != nil {
		return nil, err
	}
	return sdp.Bytes()
}

// ParseSCPPacket decodes an SCP packet from its wire form.
func ParseSCPPacket(b []byte) (*SCPPacket, error) {
	sdp, err := ParseSDPPacket(b)
	if err != nil {
		return nil, err
	}
	return FromSDPPacket(sdp)
}
