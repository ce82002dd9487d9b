package wikipedia

import (
	"fmt"
	"strings"
)

// DefaultLanguage is the edition used when none is configured.
const DefaultLanguage = "en"

// Active Wikipedia editions, largest first.
// https://en.wikipedia.org/wiki/List_of_Wikipedias#Active_editions
const languageCodes = `
en fr de es ja ru pt it zh fa pl ar nl uk he id no tr ro sr cs sv ko da simple fi hu vi
ca bn th zh-yue el et sw bg hi ms eu az hy sh sk hr uz lt eo sl ka lv be gl kk ta sq ur
mk ml ceb arz af la bs te tl is nn my ha mn ckb as mr bcl ig pa oc ast jv cy be-tarask kn
azb tt ky ne si ga als zh-min-nan tg br an sco lb ku ba war fy so ban hif gu wuu dtp km
pnb yo io lmo mt bar ps am min ary cv su ce ht rw nds sa or bew vec ia kaa ang ff mg qu
zh-classical fo zgh szl zu dag hyw yi ace sd bjn mad rue mai li xmf ts diq lld fur gd co
nso fiu-vro sah sc scn bh anp pam lo tk crh guc ie nap pdc gor ve mzn bo wa lad lij pms
hsb ks ab hak ilo pcd vo av kab sat roa-rup dsb gv ss pap tcy wo ay chr igl csb lg frr
syl xh gn frp kl guw pcm tn vls dz eml gag dv mi rm st os dty cdo got smn iu jbo tyv
nds-nl map-bms cbk-zam kw cu tw ext gpe haw avk lfn nah nv new om udm bat-smg myv rn mni
skr shi bbc ug bxr ee kv kus olo mhr mdf nqo stq vep zea se awa gan glk kg lez mwl
roa-tara tum bug cr jam blk pfl pag szy sn arc atj bpy bi ny ln rmy sm knc mrj iba xal
krc ltg nrm tly gom ady fat inh mnw nia nov rsk tpi za bm dga koi trv shn ami chy fj kbp
btm nr fon ki lbe pnt kcg ksh gcr gur to ch din ik kbd mos pi sg tet ti tay kge pwn tig
alt srn ty ann tdd bdr
`

var (
	languageList = strings.Fields(languageCodes)
	languageSet  = func() map[string]struct{} {
		m := make(map[string]struct{}, len(languageList))
		for _, code := range languageList {
			m[code] = struct{}{}
		}
		return m
	}()
)

// Languages returns the supported edition codes, largest edition first.
func Languages() []string {
	out := make([]string, len(languageList))
	copy(out, languageList)
	return out
}

// SupportedLanguage reports whether code names a supported Wikipedia edition.
// Codes are matched exactly; Wikipedia hostnames are lower case.
func SupportedLanguage(code string) bool {
	_, ok := languageSet[code]
	return ok
}

// ValidateLanguage returns an input error for codes outside the supported set.
func ValidateLanguage(code string) error {
	if SupportedLanguage(code) {
		return nil
	}
	return &Error{
		Kind: KindInput,
		Op:   "language",
		Err:  fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code),
	}
}
