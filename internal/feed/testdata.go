package feed

// SampleCSV is a small extract in the shape of the published dataset, used
// for offline runs and tests.
const SampleCSV = `Line,Trip,Timestamp
T1 North Shore Line & T1 Western Line,120,2024-09-02T06:05:00
T1 North Shore Line & T1 Western Line,340,2024-09-02T07:20:00
Blue Mountains Line,12,2024-09-02T07:45:00
T4 Eastern Suburbs & Illawarra Line,210,2024-09-02T07:50:00
T1 North Shore Line & T1 Western Line,415,2024-09-02T08:10:00
Central Coast & Newcastle Line,44,2024-09-02T08:15:00
T4 Eastern Suburbs & Illawarra Line,260,2024-09-02T08:30:00
Blue Mountains Line,18,2024-09-02T08:40:00
T1 North Shore Line & T1 Western Line,398,2024-09-02T17:05:00
T4 Eastern Suburbs & Illawarra Line,260,2024-09-02T17:15:00
Central Coast & Newcastle Line,51,2024-09-02T17:30:00
Blue Mountains Line,18,2024-09-02T17:45:00
Hunter Line,,2024-09-02T18:00:00
T9 Northern Line,75,2024-09-02T18:10:00
`
