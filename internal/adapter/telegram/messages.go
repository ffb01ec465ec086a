package telegram

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

const currency = "تومان"

var advice = map[domain.AdviceKind][]string{
	domain.AdviceIncreaseIncome: {
		"🎯 فریلنسینگ در حوزه تخصص شما",
		"📝 تولید محتوا برای شبکه‌های اجتماعی",
		"🛍 فروش محصولات دیجیتال",
		"👨‍🏫 تدریس آنلاین",
		"📊 ورود به بازار سرمایه با سرمایه کم",
		"🛠 ارائه خدمات تخصصی در پونیشا و جابینجا",
	},
	domain.AdviceInvest: {
		"💰 صندوق‌های سرمایه‌گذاری با درآمد ثابت",
		"🏠 سرمایه‌گذاری در مسکن",
		"📈 خرید سهام شرکت‌های بزرگ",
		"🏦 سپرده‌گذاری بلندمدت",
		"🎯 صندوق‌های طلا",
		"💸 سرمایه‌گذاری در ارزهای دیجیتال (با ریسک بالا)",
	},
}

// Catalog renders the Persian replies of the bot. It also serves the advice
// bundles used by the analysis report.
type Catalog struct{}

// NewCatalog creates a new Catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Suggestions returns a copy of the ordered suggestions for kind.
func (c *Catalog) Suggestions(kind domain.AdviceKind) []string {
	src := advice[kind]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// CategoryLabel returns the Persian name of a category.
func (c *Catalog) CategoryLabel(cat domain.Category) string {
	return cat.Label()
}

// TypeLabel returns the Persian name of a transaction type.
func (c *Catalog) TypeLabel(t domain.TransactionType) string {
	if t == domain.TransactionTypeIncome {
		return "درآمد"
	}
	return "هزینه"
}

func (c *Catalog) Welcome(firstName string) string {
	return fmt.Sprintf(`👋 سلام %s!
به ربات حسابدار شخصی خوش آمدید.

💡 دستورات:
/start - راهنما
/add_income - افزودن درآمد
/add_expense - افزودن هزینه
/balance - نمایش موجودی
/report - گزارش مالی
/analysis - تحلیل مالی
/cancel - لغو عملیات جاری

📊 ربات ۲۴ ساعته فعال`, firstName)
}

// CategoryPrompt lists the numbered categories of t.
func (c *Catalog) CategoryPrompt(t domain.TransactionType, categories []domain.Category) string {
	var b strings.Builder
	if t == domain.TransactionTypeIncome {
		b.WriteString("📈 دسته‌بندی درآمد:\n")
	} else {
		b.WriteString("📉 دسته‌بندی هزینه:\n")
	}
	for i, cat := range categories {
		label := c.CategoryLabel(cat)
		if cat == domain.CategoryOtherIncome || cat == domain.CategoryOtherExpense {
			label = "سایر"
		}
		fmt.Fprintf(&b, "%d: %s\n", i+1, label)
	}
	fmt.Fprintf(&b, "\nعدد 1-%d را بفرستید:", len(categories))
	return b.String()
}

func (c *Catalog) RetryCategory(categories []domain.Category) string {
	return fmt.Sprintf("❌ عدد 1-%d را وارد کنید:", len(categories))
}

func (c *Catalog) PromptAmount() string      { return "💰 مبلغ را به تومان وارد کنید:" }
func (c *Catalog) RetryAmount() string       { return "❌ عدد معتبر وارد کنید:" }
func (c *Catalog) NonPositiveAmount() string { return "❌ مبلغ باید بزرگتر از صفر باشد:" }
func (c *Catalog) PromptDescription() string { return "📝 توضیح (اختیاری):" }
func (c *Catalog) RecordFailed() string      { return "❌ خطا در ثبت تراکنش" }
func (c *Catalog) Cancelled() string         { return "❌ عملیات لغو شد." }
func (c *Catalog) InternalError() string     { return "❌ خطایی رخ داد، دوباره تلاش کنید." }
func (c *Catalog) NoReport() string          { return "📭 هیچ تراکنشی ثبت نکرده‌اید." }
func (c *Catalog) NoAnalysis() string        { return "📭 هیچ تراکنشی برای تحلیل وجود ندارد." }

// Recorded confirms a stored transaction.
func (c *Catalog) Recorded(t domain.Transaction) string {
	return fmt.Sprintf(`✅ تراکنش ثبت شد:

📊 نوع: %s
🏷 دسته: %s
💰 مبلغ: %s
📝 توضیحات: %s
📅 تاریخ: %s`,
		c.TypeLabel(t.Type),
		c.CategoryLabel(t.Category),
		Money(t.Amount),
		t.Description,
		t.Date(),
	)
}

func (c *Catalog) Balance(s domain.Summary) string {
	return fmt.Sprintf(`💼 وضعیت مالی شما:

💰 موجودی: %s
📈 کل درآمدها: %s
📉 کل هزینه‌ها: %s
🎯 تفاوت: %s`,
		Money(s.Balance), Money(s.TotalIncome), Money(s.TotalExpense), Money(s.Difference))
}

func (c *Catalog) Report(s domain.Summary) string {
	return fmt.Sprintf(`📊 گزارش مالی:

💰 موجودی: %s
📈 درآمدها: %s
📉 هزینه‌ها: %s
🎯 مانده: %s`,
		Money(s.Balance), Money(s.TotalIncome), Money(s.TotalExpense), Money(s.Difference))
}

// Analysis renders totals, numbered suggestions and the closing verdict.
func (c *Catalog) Analysis(a *domain.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, `🔍 تحلیل مالی شما:

📈 کل درآمد: %s
📉 کل هزینه: %s
💰 مانده: %s

`, Money(a.TotalIncome), Money(a.TotalExpense), Money(a.Difference))

	if a.Kind == domain.AdviceIncreaseIncome {
		b.WriteString("💡 راه‌های افزایش درآمد:\n")
	} else {
		b.WriteString("💡 پیشنهادات سرمایه‌گذاری:\n")
	}
	for i, s := range a.Suggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}

	if a.Kind == domain.AdviceIncreaseIncome {
		fmt.Fprintf(&b, "\n⚠️ هشدار: هزینه‌های شما %s بیشتر از درآمدتان است!", Money(a.Deficit))
	} else {
		fmt.Fprintf(&b, "\n🎉 تبریک! شما %s پس‌انداز دارید!", Money(a.Surplus))
	}
	return b.String()
}

// Money formats an amount with thousands separators followed by the currency.
func Money(d decimal.Decimal) string {
	return GroupDigits(d) + " " + currency
}

// GroupDigits formats d with a comma every three integer digits.
func GroupDigits(d decimal.Decimal) string {
	f, _, err := big.ParseFloat(d.String(), 10, 256, big.ToNearestEven)
	if err != nil {
		return d.String()
	}
	return humanize.BigCommaf(f)
}
