package catalog

// Loan type identifiers of the built-in catalog.
const (
	GRZ           = "GRZ"
	Personal      = "PERSONAL"
	Business      = "BUSINESS"
	Asset         = "ASSET"
	SalaryAdvance = "SALARY_ADVANCE"
)

// Document type labels shared by several loan types.
const (
	DocNRC              = "National Registration Card (NRC)"
	DocPayslips         = "Latest 3 Payslips"
	DocLatestPayslip    = "Latest Payslip"
	DocBankStatement    = "3 Months Bank Statement"
	DocEmployerLetter   = "Employer Introduction Letter"
	DocProofOfResidence = "Proof of Residence"
)

// DefaultLoanTypes returns the built-in loan products.
func DefaultLoanTypes() []LoanTypeConfig {
	return []LoanTypeConfig{
		{
			ID:                  GRZ,
			Name:                "GRZ Payroll Loan",
			Description:         "Payroll-deducted loan for Government of the Republic of Zambia employees.",
			MinAmount:           1000,
			MaxAmount:           100000,
			MinDuration:         3,
			MaxDuration:         60,
			MonthlyInterestRate: 4,
			ServiceFeeRate:      3,
			RequiredDocuments:   []string{DocNRC, DocPayslips, DocEmployerLetter, DocBankStatement},
			EligibilityCriteria: []string{
				"Confirmed civil servant on the government payroll",
				"Aged between 18 and 60 years",
				"Valid National Registration Card",
				"Net pay after deduction of at least 40% of gross pay",
			},
		},
		{
			ID:                  Personal,
			Name:                "Personal Loan",
			Description:         "Unsecured loan for salaried individuals.",
			MinAmount:           2000,
			MaxAmount:           50000,
			MinDuration:         3,
			MaxDuration:         36,
			MonthlyInterestRate: 7,
			ServiceFeeRate:      2,
			RequiredDocuments:   []string{DocNRC, DocPayslips, DocBankStatement, DocProofOfResidence},
			EligibilityCriteria: []string{
				"Aged between 18 and 65 years",
				"Regular income for at least 6 months",
				"Valid National Registration Card",
				"No outstanding defaulted loans",
			},
		},
		{
			ID:                  Business,
			Name:                "SME Business Loan",
			Description:         "Working capital for registered small and medium enterprises.",
			MinAmount:           5000,
			MaxAmount:           200000,
			MinDuration:         3,
			MaxDuration:         36,
			MonthlyInterestRate: 6,
			ServiceFeeRate:      3,
			RequiredDocuments: []string{
				DocNRC,
				"Certificate of Incorporation",
				"6 Months Business Bank Statement",
				"Business Plan",
				"Tax Clearance Certificate",
			},
			EligibilityCriteria: []string{
				"Business registered and trading for at least 12 months",
				"Director aged 18 years or older",
				"Valid tax clearance",
			},
		},
		{
			ID:                  Asset,
			Name:                "Asset-Backed Loan",
			Description:         "Loan secured against a vehicle or property.",
			MinAmount:           10000,
			MaxAmount:           500000,
			MinDuration:         6,
			MaxDuration:         60,
			MonthlyInterestRate: 5,
			ServiceFeeRate:      2.5,
			RequiredDocuments: []string{
				DocNRC,
				"Title Deed or Vehicle Registration Book",
				"Asset Valuation Report",
				DocBankStatement,
			},
			EligibilityCriteria: []string{
				"Applicant is the registered owner of the asset",
				"Asset valued at no less than 150% of the loan amount",
				"Aged 18 years or older",
			},
		},
		{
			ID:                  SalaryAdvance,
			Name:                "Salary Advance",
			Description:         "Short interest-free advance repaid from the next salaries.",
			MinAmount:           500,
			MaxAmount:           10000,
			MinDuration:         1,
			MaxDuration:         3,
			MonthlyInterestRate: 0,
			ServiceFeeRate:      5,
			RequiredDocuments:   []string{DocNRC, DocLatestPayslip},
			EligibilityCriteria: []string{
				"Employed by a partner employer",
				"Advance of no more than 50% of net salary",
			},
		},
	}
}

// Default returns a catalog holding DefaultLoanTypes.
func Default() *Catalog {
	c, err := New(DefaultLoanTypes())
	if err != nil {
		panic(err)
	}
	return c
}
