package crc

// Catalogue presets. Check is the published CRC of CheckString.
var (
	CRC5USB = Parameters[uint8]{
		Name: "CRC-5/USB", Width: 5, Polynomial: 0x05, Init: 0x1F,
		ReflectInput: true, ReflectOutput: true, FinalXOR: 0x1F, Check: 0x19,
	}

	CRC8 = Parameters[uint8]{
		Name: "CRC-8", Width: 8, Polynomial: 0x07, Init: 0x00,
		ReflectInput: false, ReflectOutput: false, FinalXOR: 0x00, Check: 0xF4,
	}

	CRC8Maxim = Parameters[uint8]{
		Name: "CRC-8/MAXIM", Width: 8, Polynomial: 0x31, Init: 0x00,
		ReflectInput: true, ReflectOutput: true, FinalXOR: 0x00, Check: 0xA1,
	}

	CRC16ARC = Parameters[uint16]{
		Name: "CRC-16/ARC", Width: 16, Polynomial: 0x8005, Init: 0x0000,
		ReflectInput: true, ReflectOutput: true, FinalXOR: 0x0000, Check: 0xBB3D,
	}

	CRC16Buypass = Parameters[uint16]{
		Name: "CRC-16/BUYPASS", Width: 16, Polynomial: 0x8005, Init: 0x0000,
		ReflectInput: false, ReflectOutput: false, FinalXOR: 0x0000, Check: 0xFEE8,
	}

	CRC16CCITTFalse = Parameters[uint16]{
		Name: "CRC-16/CCITT-FALSE", Width: 16, Polynomial: 0x1021, Init: 0xFFFF,
		ReflectInput: false, ReflectOutput: false, FinalXOR: 0x0000, Check: 0x29B1,
	}

	CRC16Genibus = Parameters[uint16]{
		Name: "CRC-16/GENIBUS", Width: 16, Polynomial: 0x1021, Init: 0xFFFF,
		ReflectInput: false, ReflectOutput: false, FinalXOR: 0xFFFF, Check: 0xD64E,
	}

	CRC16Kermit = Parameters[uint16]{
		Name: "CRC-16/KERMIT", Width: 16, Polynomial: 0x1021, Init: 0x0000,
		ReflectInput: true, ReflectOutput: true, FinalXOR: 0x0000, Check: 0x2189,
	}

	CRC16Modbus = Parameters[uint16]{
		Name: "CRC-16/MODBUS", Width: 16, Polynomial: 0x8005, Init: 0xFFFF,
		ReflectInput: true, ReflectOutput: true, FinalXOR: 0x0000, Check: 0x4B37,
	}

	CRC16X25 = Parameters[uint16]{
		Name: "CRC-16/X25", Width: 16, Polynomial: 0x1021, Init: 0xFFFF,
		ReflectInput: true, ReflectOutput: true, FinalXOR: 0xFFFF, Check: 0x906E,
	}

	CRC16XModem = Parameters[uint16]{
		Name: "CRC-16/XMODEM", Width: 16, Polynomial: 0x1021, Init: 0x0000,
		ReflectInput: false, ReflectOutput: false, FinalXOR: 0x0000, Check: 0x31C3,
	}

	CRC24OpenPGP = Parameters[uint32]{
		Name: "CRC-24/OPENPGP", Width: 24, Polynomial: 0x864CFB, Init: 0xB704CE,
		ReflectInput: false, ReflectOutput: false, FinalXOR: 0x000000, Check: 0x21CF02,
	}

	CRC32 = Parameters[uint32]{
		Name: "CRC-32", Width: 32, Polynomial: 0x04C11DB7, Init: 0xFFFFFFFF,
		ReflectInput: true, ReflectOutput: true, FinalXOR: 0xFFFFFFFF, Check: 0xCBF43926,
	}

	CRC32BZIP2 = Parameters[uint32]{
		Name: "CRC-32/BZIP2", Width: 32, Polynomial: 0x04C11DB7, Init: 0xFFFFFFFF,
		ReflectInput: false, ReflectOutput: false, FinalXOR: 0xFFFFFFFF, Check: 0xFC891918,
	}

	CRC32C = Parameters[uint32]{
		Name: "CRC-32C", Width: 32, Polynomial: 0x1EDC6F41, Init: 0xFFFFFFFF,
		ReflectInput: true, ReflectOutput: true, FinalXOR: 0xFFFFFFFF, Check: 0xE3069283,
	}

	CRC32MPEG2 = Parameters[uint32]{
		Name: "CRC-32/MPEG2", Width: 32, Polynomial: 0x04C11DB7, Init: 0xFFFFFFFF,
		ReflectInput: false, ReflectOutput: false, FinalXOR: 0x00000000, Check: 0x0376E6E7,
	}

	CRC32POSIX = Parameters[uint32]{
		Name: "CRC-32/POSIX", Width: 32, Polynomial: 0x04C11DB7, Init: 0x00000000,
		ReflectInput: false, ReflectOutput: false, FinalXOR: 0xFFFFFFFF, Check: 0x765E7680,
	}

	CRC64ECMA = Parameters[uint64]{
		Name: "CRC-64/ECMA-182", Width: 64, Polynomial: 0x42F0E1EBA9EA3693, Init: 0,
		ReflectInput: false, ReflectOutput: false, FinalXOR: 0, Check: 0x6C40DF5F0B497347,
	}

	CRC64XZ = Parameters[uint64]{
		Name: "CRC-64/XZ", Width: 64, Polynomial: 0x42F0E1EBA9EA3693, Init: 0xFFFFFFFFFFFFFFFF,
		ReflectInput: true, ReflectOutput: true, FinalXOR: 0xFFFFFFFFFFFFFFFF, Check: 0x995DC9BBDF1939FA,
	}
)
