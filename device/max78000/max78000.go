// Hand written from the MAX78000 user guide (UG7456), register map chapters
// for GCR, LPGCR, FLC and ICC. Only the registers this module drives are
// listed.

// Package max78000 is the memory map of the MAX78000.
package max78000

// Memory sections
const (
	FLASH_BASE uint32 = 0x10000000
	FLASH_SIZE uint32 = 0x00080000
	FLASH_PAGE uint32 = 0x00002000

	SRAM_BASE uint32 = 0x20000000
	SRAM_SIZE uint32 = 0x00020000
)

// Peripheral base addresses
const (
	GCR_BASE   uint32 = 0x40000000
	FLC_BASE   uint32 = 0x40029000
	ICC0_BASE  uint32 = 0x4002A000
	LPGCR_BASE uint32 = 0x40080000
)

// Register block sizes, rounded up to the documented window.
const (
	GCR_SIZE   uint32 = 0x400
	FLC_SIZE   uint32 = 0x400
	ICC0_SIZE  uint32 = 0x800
	LPGCR_SIZE uint32 = 0x400
)

// GCR register offsets
const (
	GCR_SYSCTRL  uint32 = 0x00
	GCR_RST0     uint32 = 0x04
	GCR_CLKCTRL  uint32 = 0x08
	GCR_PM       uint32 = 0x0C
	GCR_PCLKDIS0 uint32 = 0x24
	GCR_MEMCTRL  uint32 = 0x28
	GCR_RST1     uint32 = 0x44
	GCR_PCLKDIS1 uint32 = 0x48
)

// GCR_CLKCTRL fields
const (
	GCR_CLKCTRL_SYSCLK_DIV_Pos = 6
	GCR_CLKCTRL_SYSCLK_DIV_Msk = 0x7

	GCR_CLKCTRL_SYSCLK_SEL_Pos = 9
	GCR_CLKCTRL_SYSCLK_SEL_Msk = 0x7

	GCR_CLKCTRL_SYSCLK_SEL_ISO   = 0
	GCR_CLKCTRL_SYSCLK_SEL_INRO  = 3
	GCR_CLKCTRL_SYSCLK_SEL_IPO   = 4
	GCR_CLKCTRL_SYSCLK_SEL_IBRO  = 5
	GCR_CLKCTRL_SYSCLK_SEL_ERTCO = 6

	GCR_CLKCTRL_SYSCLK_RDY_Pos = 13

	GCR_CLKCTRL_ERTCO_EN_Pos = 17
	GCR_CLKCTRL_ISO_EN_Pos   = 18
	GCR_CLKCTRL_IPO_EN_Pos   = 19
	GCR_CLKCTRL_IBRO_EN_Pos  = 20

	GCR_CLKCTRL_ERTCO_RDY_Pos = 25
	GCR_CLKCTRL_ISO_RDY_Pos   = 26
	GCR_CLKCTRL_IPO_RDY_Pos   = 27
	GCR_CLKCTRL_IBRO_RDY_Pos  = 28
	GCR_CLKCTRL_INRO_RDY_Pos  = 29
)

// GCR_PCLKDIS0 bits (1 = clock gated)
const (
	GCR_PCLKDIS0_GPIO0 = 0
	GCR_PCLKDIS0_GPIO1 = 1
	GCR_PCLKDIS0_DMA   = 5
	GCR_PCLKDIS0_SPI1  = 6
	GCR_PCLKDIS0_UART0 = 9
	GCR_PCLKDIS0_UART1 = 10
	GCR_PCLKDIS0_I2C0  = 13
	GCR_PCLKDIS0_TMR0  = 15
	GCR_PCLKDIS0_TMR1  = 16
	GCR_PCLKDIS0_TMR2  = 17
	GCR_PCLKDIS0_TMR3  = 18
	GCR_PCLKDIS0_ADC   = 23
	GCR_PCLKDIS0_I2C1  = 28
	GCR_PCLKDIS0_PT    = 29
)

// GCR_PCLKDIS1 bits
const (
	GCR_PCLKDIS1_UART2 = 1
	GCR_PCLKDIS1_TRNG  = 2
	GCR_PCLKDIS1_SMPHR = 9
	GCR_PCLKDIS1_OWM   = 13
	GCR_PCLKDIS1_CRC   = 14
	GCR_PCLKDIS1_AES   = 15
	GCR_PCLKDIS1_SPI0  = 16
	GCR_PCLKDIS1_I2S   = 23
	GCR_PCLKDIS1_I2C2  = 24
	GCR_PCLKDIS1_WDT0  = 27
)

// GCR_RST0 bits (write 1 to reset, reads 1 while in progress)
const (
	GCR_RST0_DMA   = 1
	GCR_RST0_WDT0  = 2
	GCR_RST0_GPIO0 = 3
	GCR_RST0_GPIO1 = 4
	GCR_RST0_TMR0  = 5
	GCR_RST0_TMR1  = 6
	GCR_RST0_TMR2  = 7
	GCR_RST0_TMR3  = 8
	GCR_RST0_UART0 = 11
	GCR_RST0_UART1 = 12
	GCR_RST0_SPI1  = 13
	GCR_RST0_I2C0  = 16
	GCR_RST0_RTC   = 17
	GCR_RST0_TRNG  = 24
	GCR_RST0_ADC   = 26
	GCR_RST0_UART2 = 28
)

// GCR_RST1 bits
const (
	GCR_RST1_I2C1  = 0
	GCR_RST1_PT    = 1
	GCR_RST1_OWM   = 7
	GCR_RST1_CRC   = 9
	GCR_RST1_AES   = 10
	GCR_RST1_SMPHR = 16
	GCR_RST1_I2C2  = 17
	GCR_RST1_SPI0  = 19
	GCR_RST1_I2S   = 21
	GCR_RST1_DVS   = 24
	GCR_RST1_SIMO  = 25
)

// LPGCR register offsets and bits
const (
	LPGCR_RST     uint32 = 0x08
	LPGCR_PCLKDIS uint32 = 0x0C

	LPGCR_GPIO2  = 0
	LPGCR_WDT1   = 1
	LPGCR_TMR4   = 2
	LPGCR_TMR5   = 3
	LPGCR_UART3  = 4
	LPGCR_LPCOMP = 6
)

// FLC register offsets
const (
	FLC_ADDR   uint32 = 0x00
	FLC_CLKDIV uint32 = 0x04
	FLC_CTRL   uint32 = 0x08
	FLC_INTR   uint32 = 0x24
	FLC_DATA0  uint32 = 0x30
	FLC_DATA1  uint32 = 0x34
	FLC_DATA2  uint32 = 0x38
	FLC_DATA3  uint32 = 0x3C
	FLC_ACTRL  uint32 = 0x40
	FLC_WELR0  uint32 = 0x80
	FLC_RLR0   uint32 = 0x84
	FLC_WELR1  uint32 = 0x88
	FLC_RLR1   uint32 = 0x8C
)

// FLC fields
const (
	FLC_CLKDIV_CLKDIV_Pos = 0
	FLC_CLKDIV_CLKDIV_Msk = 0xFF

	FLC_CTRL_WR_Pos  = 0
	FLC_CTRL_ME_Pos  = 1
	FLC_CTRL_PGE_Pos = 2

	FLC_CTRL_ERASE_CODE_Pos      = 8
	FLC_CTRL_ERASE_CODE_Msk      = 0xFF
	FLC_CTRL_ERASE_CODE_NOP      = 0x00
	FLC_CTRL_ERASE_CODE_ERASEPG  = 0x55
	FLC_CTRL_ERASE_CODE_ERASEALL = 0xAA

	FLC_CTRL_PEND_Pos = 24

	FLC_CTRL_UNLOCK_Pos      = 28
	FLC_CTRL_UNLOCK_Msk      = 0xF
	FLC_CTRL_UNLOCK_UNLOCKED = 0x2
	FLC_CTRL_UNLOCK_LOCKED   = 0x3

	FLC_INTR_DONE_Pos = 0
	FLC_INTR_AF_Pos   = 1
)

// ICC register offsets and fields
const (
	ICC_INFO       uint32 = 0x000
	ICC_SZ         uint32 = 0x004
	ICC_CTRL       uint32 = 0x100
	ICC_INVALIDATE uint32 = 0x700

	ICC_CTRL_EN_Pos  = 0
	ICC_CTRL_RDY_Pos = 16
)
