// Package frame implements a small datagram framing protected by CRC-16/ARC.
//
// Every frame is laid out as
//
//	[version<<7 | flags] [id] [length] [payload ...] [crc16 LE]
//
// where the checksum covers the three header bytes and the payload.
// Payloads larger than MaxPayload are split into PRT frames terminated by an
// empty FIN frame; Assembler and Reader put them back together.
package frame
