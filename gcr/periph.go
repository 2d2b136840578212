package gcr

import (
	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/mmio"
	"max78000-hal/x/logx"
)

// Periph identifies a peripheral for clock gating and reset.
type Periph uint8

const (
	ADC Periph = iota + 1
	AES
	CRC
	DMA
	DVS
	GPIO0
	GPIO1
	GPIO2
	I2C0
	I2C1
	I2C2
	I2S
	LPCOMP
	OWM
	PT
	RTC
	SEMA
	SIMO
	SPI0
	SPI1
	TMR0
	TMR1
	TMR2
	TMR3
	TMR4
	TMR5
	TRNG
	UART0
	UART1
	UART2
	UART3
	WDT0
	WDT1
)

var periphNames = [...]string{
	ADC: "adc", AES: "aes", CRC: "crc", DMA: "dma", DVS: "dvs",
	GPIO0: "gpio0", GPIO1: "gpio1", GPIO2: "gpio2",
	I2C0: "i2c0", I2C1: "i2c1", I2C2: "i2c2", I2S: "i2s",
	LPCOMP: "lpcomp", OWM: "owm", PT: "pt", RTC: "rtc", SEMA: "sema", SIMO: "simo",
	SPI0: "spi0", SPI1: "spi1",
	TMR0: "tmr0", TMR1: "tmr1", TMR2: "tmr2", TMR3: "tmr3", TMR4: "tmr4", TMR5: "tmr5",
	TRNG: "trng", UART0: "uart0", UART1: "uart1", UART2: "uart2", UART3: "uart3",
	WDT0: "wdt0", WDT1: "wdt1",
}

func (p Periph) String() string {
	if int(p) < len(periphNames) && periphNames[p] != "" {
		return periphNames[p]
	}
	return "unknown"
}

// regBit locates a control bit: which register block, which register, which bit.
type regBit struct {
	lp  bool
	off uint32
	bit int8 // -1: not present
}

var none = regBit{bit: -1}

func gcrBit(off uint32, bit int) regBit { return regBit{off: off, bit: int8(bit)} }
func lpBit(off uint32, bit int) regBit  { return regBit{lp: true, off: off, bit: int8(bit)} }

type periphBits struct {
	clk, rst regBit
}

const (
	pclk0 = max78000.GCR_PCLKDIS0
	pclk1 = max78000.GCR_PCLKDIS1
	rst0  = max78000.GCR_RST0
	rst1  = max78000.GCR_RST1
	lpclk = max78000.LPGCR_PCLKDIS
	lprst = max78000.LPGCR_RST
)

var periphTable = map[Periph]periphBits{
	ADC:    {gcrBit(pclk0, max78000.GCR_PCLKDIS0_ADC), gcrBit(rst0, max78000.GCR_RST0_ADC)},
	AES:    {gcrBit(pclk1, max78000.GCR_PCLKDIS1_AES), gcrBit(rst1, max78000.GCR_RST1_AES)},
	CRC:    {gcrBit(pclk1, max78000.GCR_PCLKDIS1_CRC), gcrBit(rst1, max78000.GCR_RST1_CRC)},
	DMA:    {gcrBit(pclk0, max78000.GCR_PCLKDIS0_DMA), gcrBit(rst0, max78000.GCR_RST0_DMA)},
	DVS:    {none, gcrBit(rst1, max78000.GCR_RST1_DVS)},
	GPIO0:  {gcrBit(pclk0, max78000.GCR_PCLKDIS0_GPIO0), gcrBit(rst0, max78000.GCR_RST0_GPIO0)},
	GPIO1:  {gcrBit(pclk0, max78000.GCR_PCLKDIS0_GPIO1), gcrBit(rst0, max78000.GCR_RST0_GPIO1)},
	GPIO2:  {lpBit(lpclk, max78000.LPGCR_GPIO2), lpBit(lprst, max78000.LPGCR_GPIO2)},
	I2C0:   {gcrBit(pclk0, max78000.GCR_PCLKDIS0_I2C0), gcrBit(rst0, max78000.GCR_RST0_I2C0)},
	I2C1:   {gcrBit(pclk0, max78000.GCR_PCLKDIS0_I2C1), gcrBit(rst1, max78000.GCR_RST1_I2C1)},
	I2C2:   {gcrBit(pclk1, max78000.GCR_PCLKDIS1_I2C2), gcrBit(rst1, max78000.GCR_RST1_I2C2)},
	I2S:    {gcrBit(pclk1, max78000.GCR_PCLKDIS1_I2S), gcrBit(rst1, max78000.GCR_RST1_I2S)},
	LPCOMP: {lpBit(lpclk, max78000.LPGCR_LPCOMP), lpBit(lprst, max78000.LPGCR_LPCOMP)},
	OWM:    {gcrBit(pclk1, max78000.GCR_PCLKDIS1_OWM), gcrBit(rst1, max78000.GCR_RST1_OWM)},
	PT:     {gcrBit(pclk0, max78000.GCR_PCLKDIS0_PT), gcrBit(rst1, max78000.GCR_RST1_PT)},
	RTC:    {none, gcrBit(rst0, max78000.GCR_RST0_RTC)},
	SEMA:   {gcrBit(pclk1, max78000.GCR_PCLKDIS1_SMPHR), gcrBit(rst1, max78000.GCR_RST1_SMPHR)},
	SIMO:   {none, gcrBit(rst1, max78000.GCR_RST1_SIMO)},
	SPI0:   {gcrBit(pclk1, max78000.GCR_PCLKDIS1_SPI0), gcrBit(rst1, max78000.GCR_RST1_SPI0)},
	SPI1:   {gcrBit(pclk0, max78000.GCR_PCLKDIS0_SPI1), gcrBit(rst0, max78000.GCR_RST0_SPI1)},
	TMR0:   {gcrBit(pclk0, max78000.GCR_PCLKDIS0_TMR0), gcrBit(rst0, max78000.GCR_RST0_TMR0)},
	TMR1:   {gcrBit(pclk0, max78000.GCR_PCLKDIS0_TMR1), gcrBit(rst0, max78000.GCR_RST0_TMR1)},
	TMR2:   {gcrBit(pclk0, max78000.GCR_PCLKDIS0_TMR2), gcrBit(rst0, max78000.GCR_RST0_TMR2)},
	TMR3:   {gcrBit(pclk0, max78000.GCR_PCLKDIS0_TMR3), gcrBit(rst0, max78000.GCR_RST0_TMR3)},
	TMR4:   {lpBit(lpclk, max78000.LPGCR_TMR4), lpBit(lprst, max78000.LPGCR_TMR4)},
	TMR5:   {lpBit(lpclk, max78000.LPGCR_TMR5), lpBit(lprst, max78000.LPGCR_TMR5)},
	TRNG:   {gcrBit(pclk1, max78000.GCR_PCLKDIS1_TRNG), gcrBit(rst0, max78000.GCR_RST0_TRNG)},
	UART0:  {gcrBit(pclk0, max78000.GCR_PCLKDIS0_UART0), gcrBit(rst0, max78000.GCR_RST0_UART0)},
	UART1:  {gcrBit(pclk0, max78000.GCR_PCLKDIS0_UART1), gcrBit(rst0, max78000.GCR_RST0_UART1)},
	UART2:  {gcrBit(pclk1, max78000.GCR_PCLKDIS1_UART2), gcrBit(rst0, max78000.GCR_RST0_UART2)},
	UART3:  {lpBit(lpclk, max78000.LPGCR_UART3), lpBit(lprst, max78000.LPGCR_UART3)},
	WDT0:   {gcrBit(pclk1, max78000.GCR_PCLKDIS1_WDT0), gcrBit(rst0, max78000.GCR_RST0_WDT0)},
	WDT1:   {lpBit(lpclk, max78000.LPGCR_WDT1), lpBit(lprst, max78000.LPGCR_WDT1)},
}

func (r *Registers) lookup(p Periph, reset bool) (mmio.Reg, uint32, error) {
	bits, ok := periphTable[p]
	if !ok {
		return mmio.Reg{}, 0, errcode.InvalidParams
	}
	rb := bits.clk
	if reset {
		rb = bits.rst
	}
	if rb.bit < 0 {
		return mmio.Reg{}, 0, errcode.Unsupported
	}
	blk := r.gcr
	if rb.lp {
		blk = r.lpgcr
	}
	return blk.Reg(rb.off), 1 << uint(rb.bit), nil
}

// EnableClock ungates p's clock and waits for the gate bit to read back
// clear. Peripherals without a gate fail with errcode.Unsupported.
func (r *Registers) EnableClock(p Periph) error {
	reg, mask, err := r.lookup(p, false)
	if err != nil {
		return errcode.Wrap("gcr.clock", err)
	}
	reg.ClearBits(mask)
	if err := reg.WaitClear(r.poll, mask); err != nil {
		return errcode.Wrap("gcr.clock", err)
	}
	logx.Debug("gcr: clock on", "periph", p.String())
	return nil
}

// DisableClock gates p's clock.
func (r *Registers) DisableClock(p Periph) error {
	reg, mask, err := r.lookup(p, false)
	if err != nil {
		return errcode.Wrap("gcr.clock", err)
	}
	reg.SetBits(mask)
	if err := reg.WaitSet(r.poll, mask); err != nil {
		return errcode.Wrap("gcr.clock", err)
	}
	return nil
}

// ClockEnabled reports whether p's clock gate is open.
func (r *Registers) ClockEnabled(p Periph) (bool, error) {
	reg, mask, err := r.lookup(p, false)
	if err != nil {
		return false, err
	}
	return reg.Get()&mask == 0, nil
}

// Reset pulses p's reset bit and waits for the hardware to clear it. The
// peripheral must not be in use.
func (r *Registers) Reset(p Periph) error {
	reg, mask, err := r.lookup(p, true)
	if err != nil {
		return errcode.Wrap("gcr.reset", err)
	}
	reg.SetBits(mask)
	if err := reg.WaitClear(r.poll, mask); err != nil {
		return errcode.Wrap("gcr.reset", err)
	}
	logx.Debug("gcr: reset", "periph", p.String())
	return nil
}
